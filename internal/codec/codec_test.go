package codec_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"gwatching/internal/codec"
	"gwatching/internal/model"
)

func TestEncodeLayout(t *testing.T) {
	body := codec.Encode(model.ParsedDescription{
		AltTitles:   []string{"Alt One"},
		Description: "A short synopsis.",
		SourceURL:   "https://anilist.co/anime/1/",
	})

	want := strings.Join([]string{
		"> Alt title: *Alt One*",
		"",
		"",
		"A short synopsis.",
		"",
		"---",
		"",
		"Source: [anilist.co](https://anilist.co/anime/1/)",
		"Version: " + codec.Version,
	}, "\n")
	if body != want {
		t.Fatalf("unexpected encoding:\n%q\nwant:\n%q", body, want)
	}
}

func TestEncodeMultipleAltTitles(t *testing.T) {
	body := codec.Encode(model.ParsedDescription{
		AltTitles: []string{"One", "Two"},
		SourceURL: "https://example.com/x",
	})

	for _, line := range []string{"> Alt titles:", "> *One*", "> *Two*"} {
		if !strings.Contains(body, line+"\n") {
			t.Fatalf("encoded body missing %q:\n%s", line, body)
		}
	}
}

func TestEncodeTruncatesLongHost(t *testing.T) {
	host := strings.Repeat("a", 50) + ".example.com"
	body := codec.Encode(model.ParsedDescription{SourceURL: "https://" + host + "/title/1"})

	wantLabel := "[" + strings.Repeat("a", 46) + "...]"
	if !strings.Contains(body, wantLabel) {
		t.Fatalf("expected truncated host label %q in:\n%s", wantLabel, body)
	}
	// The link target keeps the full URL.
	if !strings.Contains(body, "("+"https://"+host+"/title/1"+")") {
		t.Fatalf("expected untruncated link target in:\n%s", body)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		parsed model.ParsedDescription
	}{
		{
			name: "full",
			parsed: model.ParsedDescription{
				AltTitles:   []string{"Alt One", "Alt Two"},
				Description: "Line one.\nLine two.",
				SourceURL:   "https://www.imdb.com/title/tt1234567/",
			},
		},
		{
			name: "single alt title",
			parsed: model.ParsedDescription{
				AltTitles:   []string{"Alt"},
				Description: "Synopsis.",
				SourceURL:   "https://anilist.co/manga/2/",
			},
		},
		{
			name:   "no alt titles no synopsis",
			parsed: model.ParsedDescription{SourceURL: "https://www.librarything.com/work/1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, version, err := codec.Decode(codec.Encode(tc.parsed))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if version != codec.Version {
				t.Fatalf("expected version %s, got %s", codec.Version, version)
			}
			if !reflect.DeepEqual(decoded, tc.parsed) {
				t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", decoded, tc.parsed)
			}
		})
	}
}

func TestDecodeMissingVersion(t *testing.T) {
	_, _, err := codec.Decode("just some handwritten card body")
	if !errors.Is(err, model.ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
}

func TestDecodeLegacySourceLineOffset(t *testing.T) {
	// Pre-0.0.1 bodies carried the source link on the very last line.
	legacy := strings.Join([]string{
		"Old synopsis.",
		"",
		"---",
		"",
		"Version: 0.0.0",
		"Source: [example.com](https://example.com/old)",
	}, "\n")

	decoded, version, err := codec.Decode(legacy)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if version != "0.0.0" {
		t.Fatalf("expected version 0.0.0, got %s", version)
	}
	if decoded.SourceURL != "https://example.com/old" {
		t.Fatalf("unexpected source url %q", decoded.SourceURL)
	}
	if decoded.Description != "Old synopsis." {
		t.Fatalf("unexpected description %q", decoded.Description)
	}
}

func TestDecodeCurrentVersionsShareParser(t *testing.T) {
	for _, version := range []string{"0.0.1", "0.0.2", "0.0.3"} {
		body := strings.Join([]string{
			"Synopsis.",
			"",
			"---",
			"",
			"Source: [example.com](https://example.com/entry)",
			"Version: " + version,
		}, "\n")

		decoded, got, err := codec.Decode(body)
		if err != nil {
			t.Fatalf("Decode %s failed: %v", version, err)
		}
		if got != version {
			t.Fatalf("expected version %s, got %s", version, got)
		}
		if decoded.SourceURL != "https://example.com/entry" {
			t.Fatalf("version %s: unexpected source url %q", version, decoded.SourceURL)
		}
	}
}
