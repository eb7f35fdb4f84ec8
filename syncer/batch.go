package syncer

import (
	M "dealsync/model"

	log "github.com/sirupsen/logrus"
)

// ProcessBatch runs the sync protocol once per unique object id in the
// notification batch. Notifications are deduplicated by object id with
// the last seen payload winning as the trigger annotation - the
// property name is informational only and does not alter behavior.
// One result is returned per unique id, in first-seen order, and one
// id failing never prevents the remaining ids from being processed.
func (e *Engine) ProcessBatch(events []M.WebhookEvent) []M.SyncResult {
	order := make([]string, 0, len(events))
	latest := make(map[string]M.WebhookEvent, len(events))
	for i := range events {
		id := events[i].DealID()
		if _, seen := latest[id]; !seen {
			order = append(order, id)
		}
		latest[id] = events[i]
	}

	results := make([]M.SyncResult, 0, len(order))
	for _, id := range order {
		event := latest[id]
		log.WithFields(log.Fields{
			"deal_id":          id,
			"trigger_property": event.PropertyName,
			"attempt_number":   event.AttemptNumber,
		}).Info("Processing change notification.")

		results = append(results, e.SyncDeal(id))
	}

	return results
}
