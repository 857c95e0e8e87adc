package codec_test

import (
	"errors"
	"reflect"
	"testing"

	"gwatching/internal/codec"
	"gwatching/internal/model"
)

func TestEncodeItem(t *testing.T) {
	date := model.NewDate(2021, 4, 2)
	cases := []struct {
		name string
		item model.ListItem
		want string
	}{
		{"plain", model.ListItem{Number: 7}, "07"},
		{"named", model.ListItem{Number: 1, Name: "Pilot"}, "**01**: *Pilot*"},
		{"dated", model.ListItem{Number: 3, Date: &date}, "**03**: [2021-04-02]"},
		{"named and dated", model.ListItem{Number: 12, Name: "Finale", Date: &date}, "**12**: *Finale* [2021-04-02]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := codec.EncodeItem(tc.item); got != tc.want {
				t.Fatalf("EncodeItem(%#v) = %q, want %q", tc.item, got, tc.want)
			}
		})
	}
}

func TestDecodeItemRoundTrip(t *testing.T) {
	date := model.NewDate(2023, 11, 5)
	items := []model.ListItem{
		{Number: 1},
		{Number: 42, Name: "The Answer"},
		{Number: 9, Date: &date},
		{Number: 10, Name: "Both", Date: &date},
	}

	for _, item := range items {
		got, err := codec.DecodeItem(codec.EncodeItem(item))
		if err != nil {
			t.Fatalf("DecodeItem failed for %#v: %v", item, err)
		}
		if !reflect.DeepEqual(got, item) {
			t.Fatalf("round trip mismatch: got %#v, want %#v", got, item)
		}
	}
}

func TestDecodeItemErrors(t *testing.T) {
	for _, text := range []string{"*broken", "not a number", "**x**: *name*"} {
		if _, err := codec.DecodeItem(text); !errors.Is(err, model.ErrItemParse) {
			t.Fatalf("expected ErrItemParse for %q, got %v", text, err)
		}
	}
}

func TestDecodeItemNegativeNumber(t *testing.T) {
	item, err := codec.DecodeItem("**-1**: *Special*")
	if err != nil {
		t.Fatalf("DecodeItem failed: %v", err)
	}
	if item.Number != -1 || item.Name != "Special" {
		t.Fatalf("unexpected item %#v", item)
	}
}
