package syncer

import (
	"testing"

	C "dealsync/config"
	M "dealsync/model"

	"github.com/stretchr/testify/assert"
)

func TestCompanyDiff(t *testing.T) {
	existing := &M.TargetCompanyRecord{
		RecordID:   "co-1",
		ExternalID: "501",
		Name:       "Acme Inc",
		Domain:     "acme.com",
		Industry:   "Manufacturing",
	}

	t.Run("NoChanges", func(t *testing.T) {
		src := &M.Company{ID: "501", Name: "Acme Inc", Domain: "acme.com", Industry: "Manufacturing"}
		update := CompanyDiff(src, existing)
		assert.True(t, update.IsEmpty())
	})

	t.Run("SingleFieldChange", func(t *testing.T) {
		src := &M.Company{ID: "501", Name: "Acme Inc", Domain: "acme.io", Industry: "Manufacturing"}
		update := CompanyDiff(src, existing)
		assert.False(t, update.IsEmpty())
		assert.Equal(t, "acme.io", *update.Domain)
		assert.Nil(t, update.Name)
		assert.Nil(t, update.Industry)
	})

	t.Run("EmptySourceFieldNeverClears", func(t *testing.T) {
		src := &M.Company{ID: "501", Name: "Acme Inc"}
		update := CompanyDiff(src, existing)
		assert.True(t, update.IsEmpty())
	})
}

func TestContactDiff(t *testing.T) {
	existing := &M.TargetContactRecord{
		RecordID:   "ct-1",
		ExternalID: "101",
		Name:       "Jane Doe",
		Email:      "jane@acme.com",
		Phone:      "+14155552671",
	}

	t.Run("PhoneFormattingAloneIsNoChange", func(t *testing.T) {
		src := &M.Contact{
			ID: "101", FirstName: "Jane", LastName: "Doe",
			Email: "jane@acme.com", Phone: "(415) 555-2671",
		}
		update := ContactDiff(src, existing)
		assert.True(t, update.IsEmpty())
	})

	t.Run("NewJobTitle", func(t *testing.T) {
		src := &M.Contact{
			ID: "101", FirstName: "Jane", LastName: "Doe",
			Email: "jane@acme.com", Phone: "+14155552671", JobTitle: "COO",
		}
		update := ContactDiff(src, existing)
		assert.Equal(t, "COO", *update.JobTitle)
		assert.Nil(t, update.Name)
		assert.Nil(t, update.Email)
		assert.Nil(t, update.Phone)
	})
}

func TestProjectDiffStatusAlwaysRecomputed(t *testing.T) {
	conf := C.DefaultSyncConfig()
	deal := testDeal()
	deal.Description = "Year one rollout"

	existing := &M.TargetProjectRecord{
		RecordID:    "pj-1",
		ExternalID:  "12345",
		Name:        "Test Deal",
		Budget:      50000,
		StartDate:   "2024-12-15",
		Description: "Year one rollout",
		Status:      "Negotiating", // stale: deal already closed won
	}

	update := ProjectDiff(&conf, deal, existing)
	assert.False(t, update.IsEmpty())
	assert.Equal(t, "Active", *update.Status)
	assert.Nil(t, update.Name)
	assert.Nil(t, update.Budget)
	assert.Nil(t, update.StartDate)
	assert.Nil(t, update.Description)
}

func TestProjectDiffUnmappedStageLeavesStatus(t *testing.T) {
	conf := C.DefaultSyncConfig()
	deal := testDeal()
	deal.NativeStage = "customstage9"
	deal.Stage = "customstage9"
	deal.Description = "Year one rollout"

	existing := &M.TargetProjectRecord{
		RecordID:    "pj-1",
		ExternalID:  "12345",
		Name:        "Test Deal",
		Budget:      50000,
		StartDate:   "2024-12-15",
		Description: "Year one rollout",
		Status:      "Active",
	}

	update := ProjectDiff(&conf, deal, existing)
	assert.True(t, update.IsEmpty())
}

func TestProjectDiffZeroAmountNeverClearsBudget(t *testing.T) {
	conf := C.DefaultSyncConfig()
	deal := testDeal()
	deal.Amount = 0
	deal.Description = "Year one rollout"

	existing := &M.TargetProjectRecord{
		RecordID:    "pj-1",
		ExternalID:  "12345",
		Name:        "Test Deal",
		Budget:      50000,
		StartDate:   "2024-12-15",
		Description: "Year one rollout",
		Status:      "Active",
	}

	update := ProjectDiff(&conf, deal, existing)
	assert.Nil(t, update.Budget)
}
