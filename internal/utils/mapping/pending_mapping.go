package mapping

import (
	"encoding/json"

	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	"github.com/ringlabs/ring_token_engine/internal/models"
)

// ToModelPendingReward converts a domain PendingReward to a model PendingReward.
func ToModelPendingReward(d domain.PendingReward) (models.PendingReward, error) {
	meta, err := json.Marshal(d.Metadata)
	if err != nil {
		return models.PendingReward{}, err
	}
	return models.PendingReward{
		PendingID:  d.PendingID,
		UserID:     d.UserID,
		Amount:     d.Amount,
		ReasonCode: d.ReasonCode,
		Status:     string(d.Status),
		Metadata:   meta,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

// ToDomainPendingReward converts a model PendingReward to a domain PendingReward.
func ToDomainPendingReward(m models.PendingReward) (domain.PendingReward, error) {
	var meta domain.Metadata
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.PendingReward{}, err
		}
	}
	return domain.PendingReward{
		PendingID:  m.PendingID,
		UserID:     m.UserID,
		Amount:     m.Amount,
		ReasonCode: m.ReasonCode,
		Status:     domain.PendingStatus(m.Status),
		Metadata:   meta,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}
