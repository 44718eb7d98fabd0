package plancache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
)

// keyVersion is mixed into every key. Bump it when generator output for
// the same model changes so stale cache entries stop matching.
const keyVersion = 1

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Canonical sorting makes map iteration order irrelevant, so the
	// device config map always encodes to the same bytes.
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("plancache: cbor encoder mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("plancache: cbor decoder mode: %v", err))
	}
}

type keyInput struct {
	Version int                    `cbor:"1,keyasint"`
	Mode    project.StructureMode  `cbor:"2,keyasint"`
	Model   *project.BuildingModel `cbor:"3,keyasint"`
}

// Key returns the hex SHA-256 identifying the plan generated for model in
// mode. ViewOptions.StructureMode of the model is ignored in favour of mode.
func Key(mode project.StructureMode, model *project.BuildingModel) (string, error) {
	in := keyInput{Version: keyVersion, Mode: mode}
	if model != nil {
		m := *model
		m.ViewOptions.StructureMode = ""
		in.Model = &m
	}

	data, err := encMode.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func encodeRows(rows []generator.Row) ([]byte, error) {
	data, err := encMode.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encoding rows: %w", err)
	}
	return data, nil
}

func decodeRows(data []byte) ([]generator.Row, error) {
	var rows []generator.Row
	if err := decMode.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	return rows, nil
}
