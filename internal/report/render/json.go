package render

import (
	"encoding/json"

	pkgerrors "spearow/pkg/errors"
)

// renderJSON is the identity transform: the model is already a serializable
// tree, and records marshal their keys in insertion order.
func renderJSON(model any) ([]byte, error) {
	out, err := json.Marshal(model)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "encode report as json")
	}
	return out, nil
}
