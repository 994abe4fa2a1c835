package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder-service/internal/models"
)

func TestDefaultsCoverEveryWeekday(t *testing.T) {
	table := Defaults()
	jobs := table.Jobs()

	require.Len(t, jobs, len(models.Weekdays))
	for _, day := range models.Weekdays {
		assert.Contains(t, jobs, day)
	}

	// Every task tag in the table has a description.
	descriptions := table.Descriptions()
	for day, periods := range jobs {
		for period, tags := range periods {
			for _, tag := range tags {
				assert.Contains(t, descriptions, tag, "%s %s %s", day, period, tag)
			}
		}
	}
}

func TestJobsReturnsCopy(t *testing.T) {
	table := Defaults()

	jobs := table.Jobs()
	jobs["Monday"]["morning"][0] = "mutated"
	delete(jobs, "Tuesday")

	fresh := table.Jobs()
	assert.Equal(t, "open_shop", fresh["Monday"]["morning"][0])
	assert.Contains(t, fresh, "Tuesday")
}

func TestReplaceFallsBackToDefaults(t *testing.T) {
	table := Defaults()

	custom := map[string]map[string][]string{
		"Monday": {"morning": {"open_shop"}},
	}
	table.Replace(custom, nil)

	assert.Len(t, table.Jobs(), 1)
	assert.Equal(t, Defaults().Descriptions(), table.Descriptions())

	table.Replace(nil, nil)
	assert.Equal(t, Defaults().Jobs(), table.Jobs())
}
