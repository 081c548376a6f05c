package eventhub_test

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/eventhub"
	"complainthub/backend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebSocketClient_Accepts(t *testing.T) {
	policy := complaint.MustDefaultPolicy()
	log := quietLogger().WithField("test", t.Name())

	submitter := eventhub.NewWebSocketClient(models.Actor{ID: "s1", Role: models.RoleSubmitter}, policy, nil, nil, log)
	manager := eventhub.NewWebSocketClient(models.Actor{ID: "m1", Role: models.RoleManager}, policy, nil, nil, log)

	own := models.ComplaintEvent{ComplaintID: "c1", SubmitterID: "s1", Status: models.StatusResolved}
	other := models.ComplaintEvent{ComplaintID: "c2", SubmitterID: "s2", Status: models.StatusPending}

	assert.True(t, submitter.Accepts(own))
	assert.False(t, submitter.Accepts(other))
	assert.True(t, manager.Accepts(own))
	assert.True(t, manager.Accepts(other))
	assert.Equal(t, "s1", submitter.GetUserID())
}
