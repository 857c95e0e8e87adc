package main

import (
	"strings"
	"testing"

	"gwatching/internal/model"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCommand()

	want := map[string]bool{
		"sync":   false,
		"setup":  false,
		"cards":  false,
		"cron":   false,
		"config": false,
	}
	for _, sub := range cmd.Commands() {
		name := sub.Name()
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSyncCommandRequiresASelection(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"sync"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected sync without flags to fail")
	}
	if !strings.Contains(err.Error(), "nothing to do") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSelectCard(t *testing.T) {
	ongoing := &model.Card{Title: "A", SourceURL: "https://a", Labels: model.NewDataLabelSet(model.LabelAnime)}
	ended := &model.Card{Title: "B", SourceURL: "https://b", Labels: model.NewDataLabelSet(model.LabelSeries, model.LabelCompleted)}
	book := &model.Card{Title: "C", SourceURL: "https://c", Labels: model.NewDataLabelSet(model.LabelBook)}

	cases := []struct {
		name string
		card *model.Card
		opts syncOptions
		want bool
	}{
		{"ongoing picks airing", ongoing, syncOptions{ongoing: true}, true},
		{"ongoing skips ended", ended, syncOptions{ongoing: true}, false},
		{"ended picks completed", ended, syncOptions{ended: true}, true},
		{"ended skips airing", ongoing, syncOptions{ended: true}, false},
		{"books are never selected", book, syncOptions{ongoing: true, ended: true}, false},
		{"by title matches", ended, syncOptions{byTitle: "B"}, true},
		{"by title mismatch", ongoing, syncOptions{byTitle: "B"}, false},
		{"by url matches regardless of state", ended, syncOptions{byURL: "https://b"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := selectCard(tc.card, tc.opts); got != tc.want {
				t.Fatalf("selectCard = %v, want %v", got, tc.want)
			}
		})
	}
}
