package mysql

import (
	"charity-donation-backend/internal/model"
	"database/sql"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db}
}

func (r *EventRepository) ListByCampaign(owner string, campaignID int64) ([]*model.CampaignEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, owner_address, campaign_id, event_type, payload, created_at
		 FROM campaign_events WHERE owner_address = ? AND campaign_id = ? ORDER BY id ASC`,
		owner, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*model.CampaignEvent{}
	for rows.Next() {
		e := &model.CampaignEvent{}
		err := rows.Scan(&e.ID, &e.Owner, &e.CampaignID, &e.EventType, &e.Payload, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
