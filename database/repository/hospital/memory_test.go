package hospital

import (
	"context"
	"sync"
	"testing"

	"careline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryAvailabilityFilters(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	all, err := repo.QueryAvailability(ctx, models.SlotFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	byDept, err := repo.QueryAvailability(ctx, models.SlotFilter{Department: "cardiology"})
	require.NoError(t, err)
	require.NotEmpty(t, byDept)
	for _, s := range byDept {
		assert.Equal(t, "Cardiology", s.Department)
		assert.True(t, s.Available)
	}

	morning, err := repo.QueryAvailability(ctx, models.SlotFilter{TimePreference: "morning"})
	require.NoError(t, err)
	require.NotEmpty(t, morning)
	for _, s := range morning {
		assert.Less(t, s.Time, "12:00")
	}

	afternoon, err := repo.QueryAvailability(ctx, models.SlotFilter{TimePreference: "afternoon"})
	require.NoError(t, err)
	require.NotEmpty(t, afternoon)
	for _, s := range afternoon {
		assert.GreaterOrEqual(t, s.Time, "12:00")
	}
}

func TestQueryAvailabilityOrdering(t *testing.T) {
	repo := NewMemoryRepo()

	slots, err := repo.QueryAvailability(context.Background(), models.SlotFilter{})
	require.NoError(t, err)
	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		if prev.Date == cur.Date {
			assert.LessOrEqual(t, prev.Time, cur.Time)
		} else {
			assert.Less(t, prev.Date, cur.Date)
		}
	}
}

func TestBookSlotRemovesFromAvailability(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	slots, err := repo.QueryAvailability(ctx, models.SlotFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	target := slots[0]

	result, err := repo.BookSlot(ctx, target.ID, models.PatientInfo{Name: "Pat Doe"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.ConfirmationCode)
	require.NotNil(t, result.Slot)
	assert.Equal(t, target.ID, result.Slot.ID)

	after, err := repo.QueryAvailability(ctx, models.SlotFilter{})
	require.NoError(t, err)
	for _, s := range after {
		assert.NotEqual(t, target.ID, s.ID)
	}
}

func TestBookSlotErrors(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.BookSlot(ctx, "no-such-slot", models.PatientInfo{Name: "Pat Doe"})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	slots, err := repo.QueryAvailability(ctx, models.SlotFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	_, err = repo.BookSlot(ctx, slots[0].ID, models.PatientInfo{Name: "First"})
	require.NoError(t, err)
	_, err = repo.BookSlot(ctx, slots[0].ID, models.PatientInfo{Name: "Second"})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookSlotConcurrentRace(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	slots, err := repo.QueryAvailability(ctx, models.SlotFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	target := slots[0].ID

	const callers = 16
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.BookSlot(ctx, target, models.PatientInfo{Name: "Racer"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case err == ErrSlotTaken:
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, losses)
}

func TestDepartmentsAreDistinctAndSorted(t *testing.T) {
	repo := NewMemoryRepo()

	departments, err := repo.Departments(context.Background())
	require.NoError(t, err)
	assert.Contains(t, departments, "Cardiology")
	seen := make(map[string]bool)
	for i, d := range departments {
		assert.False(t, seen[d])
		seen[d] = true
		if i > 0 {
			assert.Less(t, departments[i-1], d)
		}
	}
}

func TestHRPoliciesCoverAllCategories(t *testing.T) {
	repo := NewMemoryRepo()

	policies, err := repo.HRPolicies(context.Background())
	require.NoError(t, err)

	categories := make(map[string]int)
	for _, p := range policies {
		categories[p.Category]++
	}
	for _, cat := range []string{"leave", "benefits", "timesheet", "policies"} {
		assert.Greater(t, categories[cat], 0, cat)
	}
}
