package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPaidFilter_EndDayInclusive(t *testing.T) {
	start := time.Date(2022, 1, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2022, 3, 31, 8, 0, 0, 0, time.UTC)

	filter := paidFilter(7, start, end)

	assert.Equal(t, int64(7), filter["client_id"])
	bounds, ok := filter["paid_date"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), bounds["$gte"])
	assert.Equal(t, time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC), bounds["$lt"])
}

func TestPaidTotalsPipeline_Stages(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)

	pipeline := paidTotalsPipeline(7, start, end)
	require.Len(t, pipeline, 2)

	match, ok := pipeline[0].(bson.M)
	require.True(t, ok)
	assert.Equal(t, paidFilter(7, start, end), match["$match"])

	group, ok := pipeline[1].(bson.M)["$group"].(bson.M)
	require.True(t, ok)
	assert.Nil(t, group["_id"])
	assert.Equal(t, bson.M{"$sum": "$amount"}, group["amount"])
	assert.Equal(t, bson.M{"$sum": "$hours"}, group["hours"])
	assert.Equal(t, bson.M{"$sum": 1}, group["count"])
}

func TestListFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, listFilter(0))
	assert.Equal(t, bson.M{"client_id": int64(7)}, listFilter(7))
	assert.Equal(t, bson.M{"_id": int64(3), "version": int64(2)}, versionFilter(3, 2))
}
