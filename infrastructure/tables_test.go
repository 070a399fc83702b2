package infrastructure

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
)

func TestGetTablesAppliesPrefix(t *testing.T) {
	input, err := GetTables("dev_donations")
	assert.NoError(t, err)
	assert.Equal(t, "dev_donations", aws.ToString(input.TableName))
}

func TestGetTablesUnknownKey(t *testing.T) {
	_, err := GetTables("dev_nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestTaskTablesCarryQueryIndexes(t *testing.T) {
	for _, name := range []string{"dev_donations", "prod_requests"} {
		input, err := GetTables(name)
		assert.NoError(t, err)

		var names []string
		for _, gsi := range input.GlobalSecondaryIndexes {
			names = append(names, aws.ToString(gsi.IndexName))
		}
		assert.Contains(t, names, "location-index")
		assert.Contains(t, names, "assignedTo-index")
	}
}

func TestUsersTableIndexes(t *testing.T) {
	input, err := GetTables("dev_users")
	assert.NoError(t, err)

	var names []string
	for _, gsi := range input.GlobalSecondaryIndexes {
		names = append(names, aws.ToString(gsi.IndexName))
	}
	assert.ElementsMatch(t, []string{"email-index", "location-index", "role-index"}, names)
}

func TestAuditTableIndexes(t *testing.T) {
	input, err := GetTables("dev_audit")
	assert.NoError(t, err)

	var names []string
	for _, gsi := range input.GlobalSecondaryIndexes {
		names = append(names, aws.ToString(gsi.IndexName))
	}
	assert.ElementsMatch(t, []string{"itemId-timestamp-index", "actorId-timestamp-index", "scope-timestamp-index"}, names)
}

func TestBareNamePassesThrough(t *testing.T) {
	input, err := GetTables("audit")
	assert.NoError(t, err)
	assert.Equal(t, "audit", aws.ToString(input.TableName))
}
