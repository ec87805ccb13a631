package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-tf/steamtrade/api"
)

func testDescriptions() map[string]Description {
	return map[string]Description{
		"100_0":   {ClassId: "100", InstanceId: "0", Name: "Key", MarketHashName: "Mann Co. Supply Crate Key", Tradable: true},
		"200_300": {ClassId: "200", InstanceId: "300", Name: "Hat", Type: "Cosmetic"},
	}
}

func TestDescriptionKey(t *testing.T) {
	assert.Equal(t, "100_0", DescriptionKey("100", ""))
	assert.Equal(t, "100_0", DescriptionKey("100", "0"))
	assert.Equal(t, "100_7", DescriptionKey("100", "7"))
}

func TestMerge(t *testing.T) {
	assets := []Asset{
		{Id: "3", ClassId: "200", InstanceId: "300", Amount: "1", Pos: 1},
		{Id: "1", ClassId: "100", Amount: "1", Pos: 2},
		{Id: "2", ClassId: "100", InstanceId: "0", Amount: "5", Pos: 3},
	}

	t.Run("keeps count and order and injects the context", func(t *testing.T) {
		items, err := Merge(assets, testDescriptions(), "2", FailOnMissingDescription)
		require.NoError(t, err)
		require.Len(t, items, 3)

		assert.Equal(t, []string{"3", "1", "2"}, []string{items[0].Id, items[1].Id, items[2].Id})
		for _, item := range items {
			assert.Equal(t, "2", item.ContextId)
		}
		assert.Equal(t, "Hat", items[0].Name)
		assert.Equal(t, "Mann Co. Supply Crate Key", items[1].MarketHashName)
		assert.True(t, bool(items[1].Tradable))
		assert.Equal(t, "5", items[2].Amount)
	})

	t.Run("description fields win", func(t *testing.T) {
		items, err := Merge(assets[1:2], testDescriptions(), "2", FailOnMissingDescription)
		require.NoError(t, err)
		assert.Equal(t, "0", items[0].InstanceId)
	})

	t.Run("does not modify its input", func(t *testing.T) {
		input := append([]Asset(nil), assets...)
		_, err := Merge(input, testDescriptions(), "2", FailOnMissingDescription)
		require.NoError(t, err)
		assert.Equal(t, assets, input)
	})

	missing := append([]Asset{{Id: "9", ClassId: "999"}}, assets...)

	t.Run("missing description fails by default", func(t *testing.T) {
		_, err := Merge(missing, testDescriptions(), "2", FailOnMissingDescription)
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrDescriptionNotFound))
		assert.Contains(t, err.Error(), "999_0")
	})

	t.Run("missing description can be skipped", func(t *testing.T) {
		items, err := Merge(missing, testDescriptions(), "2", SkipMissingDescription)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("missing description can be left empty", func(t *testing.T) {
		items, err := Merge(missing, testDescriptions(), "2", EmptyMissingDescription)
		require.NoError(t, err)
		require.Len(t, items, 4)
		assert.Equal(t, "9", items[0].Id)
		assert.Equal(t, "999", items[0].ClassId)
		assert.Empty(t, items[0].Name)
		assert.Equal(t, "2", items[0].ContextId)
	})
}

func TestParseMissingDescriptionPolicy(t *testing.T) {
	for input, expected := range map[string]MissingDescriptionPolicy{
		"":      FailOnMissingDescription,
		"fail":  FailOnMissingDescription,
		"skip":  SkipMissingDescription,
		"empty": EmptyMissingDescription,
	} {
		policy, err := ParseMissingDescriptionPolicy(input)
		require.NoError(t, err)
		assert.Equal(t, expected, policy)
	}

	_, err := ParseMissingDescriptionPolicy("drop")
	assert.Error(t, err)
}
