package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvertiserIDPartition(t *testing.T) {
	assert.Equal(t, "acme", AdvertiserID("companies/acme").Partition())
	assert.Equal(t, "acme", AdvertiserID("acme").Partition())
	assert.Equal(t, "c", AdvertiserID("a/b/c").Partition())
}

func TestAdvertiserIDIsZero(t *testing.T) {
	assert.True(t, AdvertiserID("").IsZero())
	assert.True(t, AdvertiserID("   ").IsZero())
	assert.False(t, AdvertiserID("acme").IsZero())
}

func TestAdKeyString(t *testing.T) {
	assert.Equal(t, "sidebar-12", AdKey{Slot: "sidebar", ID: 12}.String())
}
