package complaint

import (
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/storage"
	"strings"
)

// Sort keys accepted by listings.
const (
	SortDateAsc  = "date_asc"
	SortStatus   = "status"
	SortPriority = "priority"
)

// ListParams are the listing query parameters as received from the client.
type ListParams struct {
	Sort          string `form:"sort"`
	Status        string `form:"status"`
	Category      string `form:"category"`
	Priority      string `form:"priority"`
	ShowWithdrawn string `form:"showWithdrawn"`
}

// BuildQuery turns listing parameters into a store filter and sort for actor.
//
// Submitters only see their own complaints, managers see all. Withdrawn complaints
// are hidden unless ShowWithdrawn is exactly "true". Status and priority sort by
// their stored labels, so priority orders high, low, medium, urgent.
func BuildQuery(policy *Policy, actor models.Actor, p ListParams) (storage.ComplaintFilter, storage.Sort, error) {
	var filter storage.ComplaintFilter

	switch {
	case policy.RoleMay(actor, ActionListAll):
	case policy.RoleMay(actor, ActionListOwn):
		filter.SubmitterID = actor.ID
	default:
		return filter, storage.Sort{}, errAccessDenied
	}

	if p.ShowWithdrawn != "true" {
		filter.ExcludeStatus = models.StatusWithdrawn
	}

	fields := map[string]string{}
	if v := strings.TrimSpace(p.Status); v != "" {
		if s := models.Status(v); s.Valid() {
			filter.Status = s
		} else {
			fields["status"] = "unknown status " + v
		}
	}
	if v := strings.TrimSpace(p.Category); v != "" {
		if c := models.Category(v); c.Valid() {
			filter.Category = c
		} else {
			fields["category"] = "unknown category " + v
		}
	}
	if v := strings.TrimSpace(p.Priority); v != "" {
		if pr := models.Priority(v); pr.Valid() {
			filter.Priority = pr
		} else {
			fields["priority"] = "unknown priority " + v
		}
	}

	sort := storage.Sort{Field: storage.SortByCreatedAt, Desc: true}
	switch strings.TrimSpace(p.Sort) {
	case "":
	case SortDateAsc:
		sort = storage.Sort{Field: storage.SortByCreatedAt}
	case SortStatus:
		sort = storage.Sort{Field: storage.SortByStatus}
	case SortPriority:
		sort = storage.Sort{Field: storage.SortByPriority}
	default:
		fields["sort"] = "unknown sort key " + p.Sort
	}

	if len(fields) > 0 {
		return filter, sort, newValidationError("Invalid listing parameters", fields)
	}
	return filter, sort, nil
}
