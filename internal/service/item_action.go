package service

import (
	"fmt"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
)

// ItemClass which group of a daily entry an item action belongs to
type ItemClass int

const (
	ItemClassMachine ItemClass = iota + 1
	ItemClassCompressor
	ItemClassDrillingTool
)

// ParseItemClass parses "machine" | "compressor" | "drilling_tool".
func ParseItemClass(s string) (ItemClass, error) {
	switch s {
	case "machine":
		return ItemClassMachine, nil
	case "compressor":
		return ItemClassCompressor, nil
	case "drilling_tool":
		return ItemClassDrillingTool, nil
	}
	return 0, fmt.Errorf("%w: unknown item class %q", ErrInvalidItemAction, s)
}

func (c ItemClass) String() string {
	switch c {
	case ItemClassMachine:
		return "machine"
	case ItemClassCompressor:
		return "compressor"
	case ItemClassDrillingTool:
		return "drilling_tool"
	}
	return "unknown"
}

// ServiceType tag stored on fitting records of this class.
func (c ItemClass) ServiceType() model.ServiceType {
	switch c {
	case ItemClassCompressor:
		return model.ServiceTypeCompressor
	case ItemClassDrillingTool:
		return model.ServiceTypeDrillingTool
	}
	return model.ServiceTypeMachine
}

// AssetKind kind of asset this class may be fitted to.
// Drilling tools go on compressors.
func (c ItemClass) AssetKind() model.AssetKind {
	if c == ItemClassMachine {
		return model.AssetKindMachine
	}
	return model.AssetKindCompressor
}

// itemAction closed set: fitAction | removeAction
type itemAction interface {
	isItemAction()
}

type fitAction struct {
	itemID   string
	quantity int
}

type removeAction struct {
	fittingID string
}

func (fitAction) isItemAction()    {}
func (removeAction) isItemAction() {}

// parseItemActions turns wire actions into typed actions, rejecting unknown tags
// and actions missing their payload.
func parseItemActions(class ItemClass, reqs []dto.ItemActionRequest) ([]itemAction, error) {
	actions := make([]itemAction, 0, len(reqs))
	for i, r := range reqs {
		switch r.Action {
		case "fit":
			if r.ItemID == "" || r.Quantity <= 0 {
				return nil, fmt.Errorf("%w: %s item %d needs item_id and a positive quantity", ErrInvalidItemAction, class, i)
			}
			actions = append(actions, fitAction{itemID: r.ItemID, quantity: r.Quantity})
		case "remove":
			if r.FittingID == "" {
				return nil, fmt.Errorf("%w: %s item %d needs fitting_id", ErrInvalidItemAction, class, i)
			}
			actions = append(actions, removeAction{fittingID: r.FittingID})
		default:
			return nil, fmt.Errorf("%w: %s item %d has unknown action %q", ErrInvalidItemAction, class, i, r.Action)
		}
	}
	return actions, nil
}
