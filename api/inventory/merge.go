package inventory

import (
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/escrow-tf/steamtrade/api"
)

// MissingDescriptionPolicy decides what Merge does with an asset whose description is absent.
type MissingDescriptionPolicy int

const (
	// FailOnMissingDescription aborts the merge with ErrDescriptionNotFound.
	FailOnMissingDescription MissingDescriptionPolicy = iota
	// SkipMissingDescription leaves the asset out of the result.
	SkipMissingDescription
	// EmptyMissingDescription keeps the asset with a zero description.
	EmptyMissingDescription
)

func ParseMissingDescriptionPolicy(s string) (MissingDescriptionPolicy, error) {
	switch s {
	case "", "fail":
		return FailOnMissingDescription, nil
	case "skip":
		return SkipMissingDescription, nil
	case "empty":
		return EmptyMissingDescription, nil
	}
	return FailOnMissingDescription, eris.Errorf("unknown missing description policy %q", s)
}

// DescriptionKey is the rgDescriptions key of a class/instance pair.
func DescriptionKey(classId, instanceId string) string {
	if instanceId == "" {
		instanceId = "0"
	}
	return classId + "_" + instanceId
}

// Merge joins assets with their descriptions, in input order.
func Merge(
	assets []Asset,
	descriptions map[string]Description,
	contextId string,
	policy MissingDescriptionPolicy,
) ([]Item, error) {
	items := make([]Item, 0, len(assets))
	for _, asset := range assets {
		key := DescriptionKey(string(asset.ClassId), string(asset.InstanceId))

		description, found := descriptions[key]
		if !found {
			switch policy {
			case SkipMissingDescription:
				logrus.WithFields(logrus.Fields{
					"assetid": asset.Id,
					"key":     key,
				}).Debug("Skipping asset without description")
				continue
			case EmptyMissingDescription:
				description = Description{}
			default:
				return nil, eris.Wrapf(api.ErrDescriptionNotFound, "no description for asset %s (%s)", asset.Id, key)
			}
		}

		item := Item{
			Description: description,
			Id:          string(asset.Id),
			ClassId:     string(asset.ClassId),
			InstanceId:  string(asset.InstanceId),
			Amount:      string(asset.Amount),
			Pos:         asset.Pos,
			IsCurrency:  asset.IsCurrency,
			ContextId:   contextId,
		}
		if description.ClassId != "" {
			item.ClassId = string(description.ClassId)
		}
		if description.InstanceId != "" {
			item.InstanceId = string(description.InstanceId)
		}

		items = append(items, item)
	}

	return items, nil
}
