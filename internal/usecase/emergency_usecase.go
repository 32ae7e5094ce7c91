package usecase

import (
	"context"
	"time"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
)

type EmergencyGrantUseCase struct {
	grantRepo repository.EmergencyGrantRepository
	now       func() time.Time
}

func NewEmergencyGrantUseCase(grantRepo repository.EmergencyGrantRepository) *EmergencyGrantUseCase {
	return &EmergencyGrantUseCase{
		grantRepo: grantRepo,
		now:       utcNow,
	}
}

// GetGrant returns nil when the reviewer never attempted an emergency
// review of target.
func (uc *EmergencyGrantUseCase) GetGrant(ctx context.Context, reviewerUID, targetUID string) (*entity.EmergencyGrant, error) {
	return uc.grantRepo.Get(ctx, reviewerUID, targetUID)
}

func (uc *EmergencyGrantUseCase) MarkUsed(ctx context.Context, reviewerUID, targetUID, phone string) (*entity.EmergencyGrant, error) {
	return uc.grantRepo.MarkUsed(ctx, reviewerUID, targetUID, phone, uc.now())
}

func (uc *EmergencyGrantUseCase) GetStatus(ctx context.Context, reviewerUID, targetUID string) (*entity.EmergencyGrantStatus, error) {
	grant, err := uc.grantRepo.Get(ctx, reviewerUID, targetUID)
	if err != nil {
		return nil, err
	}

	status := &entity.EmergencyGrantStatus{TargetUID: targetUID, Available: true}
	if grant != nil && grant.Used {
		status.Available = false
		status.UsedAt = grant.UsedAt
	}
	return status, nil
}
