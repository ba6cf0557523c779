package music

import (
	"fmt"

	"github.com/speccade/speccade/music/it"
	"github.com/speccade/speccade/music/xm"
)

// Generate serialises a decoded tracker module to its binary form,
// dispatching on params.Format (spec §4.10). params must already have
// passed validate.Spec.
func Generate(params TrackerParams, seed uint32) ([]byte, error) {
	switch params.Format {
	case FormatXM:
		return xm.Serialize(params, seed)
	case FormatIT:
		return it.Serialize(params, seed)
	default:
		return nil, fmt.Errorf("music: unknown tracker format %q", params.Format)
	}
}
