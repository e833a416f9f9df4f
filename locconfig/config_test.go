package locconfig_test

import (
	"errors"
	"testing"

	"github.com/averr/go-worldcache/internal/testenc"
	"github.com/averr/go-worldcache/locconfig"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func defaultConfig(id uint32) locconfig.Config {
	return locconfig.Config{
		ID:               id,
		Width:            1,
		Length:           1,
		Animation:        -1,
		MapSceneID:       -1,
		MapAreaID:        -1,
		Solid:            true,
		BlocksProjectile: true,
	}
}

func TestDecode(t *testing.T) {
	record := []byte{2}
	record = testenc.AppendCString(record, "TestObj")
	record = append(record, 5, 1, 0, 10) // one model, id 10
	record = append(record, 0)

	config, err := locconfig.Decode(6560, record)
	require.NoError(t, err)

	want := defaultConfig(6560)
	want.Name = "TestObj"
	want.Models = []uint16{10}
	if diff := cmp.Diff(&want, config); diff != "" {
		t.Errorf("Decode mismatch (-want+got):\n%v", diff)
	}
}

func TestDecodeAttributes(t *testing.T) {
	record := []byte{
		1, 2, 0x01, 0x02, 10, 0x01, 0x03, 22, // two models with kinds
		14, 3, // width
		15, 2, // length
		17,          // not solid
		19, 1,       // interactive
		24, 0x12, 0x34, // animation
		62, // rotated
		73, // obstructs ground
		74, // hollow
	}
	record = append(record, 30)
	record = testenc.AppendCString(record, "Open")
	record = append(record, 34)
	record = testenc.AppendCString(record, "Examine")
	record = append(record, 0)

	config, err := locconfig.Decode(42, record)
	require.NoError(t, err)

	want := defaultConfig(42)
	want.Models = []uint16{0x0102, 0x0103}
	want.Kinds = []uint8{10, 22}
	want.Width = 3
	want.Length = 2
	want.Solid = false
	want.BlocksProjectile = false
	want.Interactive = true
	want.Animation = 0x1234
	want.Rotated = true
	want.ObstructsGround = true
	want.Hollow = true
	want.Actions[0] = "Open"
	want.Actions[4] = "Examine"
	if diff := cmp.Diff(&want, config); diff != "" {
		t.Errorf("Decode mismatch (-want+got):\n%v", diff)
	}
}

func TestDecodeSkipsUnretainedTags(t *testing.T) {
	record := []byte{
		21,                 // marker, no payload
		29, 0xFF,           // ambient
		39, 0x10,           // contrast
		40, 2, 0, 1, 0, 2, 0, 3, 0, 4, // recolors
		65, 0, 128, // model scale
		78, 0, 99, 5, // ambient sound
		77, 0, 1, 0, 2, 1, 0, 5, 0, 6, // morph table, count 1 -> two u16s
		79, 0, 1, 0, 2, 3, 2, 0, 5, 0, 6, // sound list, count 2
	}
	record = append(record, 249, 2, 0, 0, 0, 1, 0, 0, 0, 9, 1, 0, 0, 2) // int param + string param
	record = testenc.AppendCString(record, "value")
	record = append(record, 2)
	record = testenc.AppendCString(record, "Named")
	record = append(record, 0)

	config, err := locconfig.Decode(7, record)
	require.NoError(t, err)

	want := defaultConfig(7)
	want.Name = "Named"
	if diff := cmp.Diff(&want, config); diff != "" {
		t.Errorf("Decode mismatch (-want+got):\n%v", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		Name string
		Data []byte
	}{
		{Name: "Empty", Data: nil},
		{Name: "NoTerminator", Data: []byte{14, 1}},
		{Name: "TruncatedPayload", Data: []byte{24, 0x12}},
		{Name: "TruncatedModelList", Data: []byte{5, 3, 0, 1}},
		{Name: "UnknownTag", Data: []byte{200, 0}},
		{Name: "TrailingGarbage", Data: []byte{0, 1, 2}},
		{Name: "UnterminatedName", Data: []byte{2, 'x', 'y'}},
	}
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := locconfig.Decode(1, tc.Data)
			require.Truef(t, errors.Is(err, locconfig.ErrMalformed), "%v", err)
		})
	}
}

func TestDecodeDeterministic(t *testing.T) {
	record := []byte{2}
	record = testenc.AppendCString(record, "Door")
	record = append(record, 5, 2, 0, 1, 0, 2, 19, 1, 0)

	first, err := locconfig.Decode(11, record)
	require.NoError(t, err)
	second, err := locconfig.Decode(11, record)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated decode mismatch (-first+second):\n%v", diff)
	}
}
