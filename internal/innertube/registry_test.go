package innertube

import (
	"reflect"
	"testing"
)

func TestRegistryContainsAllPersonas(t *testing.T) {
	r := NewRegistry()
	want := []string{
		"web", "web_safari", "web_embedded", "web_music", "web_creator",
		"android", "android_sdkless", "android_vr", "ios", "mweb",
		"tv", "tv_simply", "tv_embedded",
	}
	for _, id := range want {
		if _, ok := r.Get(id); !ok {
			t.Errorf("Get(%q) missing", id)
		}
	}
	if got := len(r.All()); got != len(want) {
		t.Fatalf("len(All()) = %d, want %d", got, len(want))
	}
}

func TestMustGetPanicsOnUnknownClient(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustGet() did not panic for unknown client")
		}
	}()
	NewRegistry().MustGet("atari")
}

func TestPriorityFormula(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		id   string
		want int
	}{
		{"android", 10*0 - 3},
		{"android_sdkless", 10*0 - 3},
		{"mweb", 10*1 - 3},
		{"tv", 10*2 - 3},
		{"tv_embedded", 10*2 - 2},
		{"web", 10*3 - 3},
		{"web_embedded", 10*3 - 2},
		{"web_safari", 10*3 - 3},
		{"ios", 10*4 - 3},
	}
	for _, tt := range tests {
		p := r.MustGet(tt.id)
		if p.Priority != tt.want {
			t.Errorf("%s priority = %d, want %d", tt.id, p.Priority, tt.want)
		}
	}
}

func TestSameFamilySameEmbeddednessCompareEqual(t *testing.T) {
	r := NewRegistry()
	a := r.MustGet("android")
	b := r.MustGet("android_sdkless")
	if a.Priority != b.Priority {
		t.Fatalf("android=%d android_sdkless=%d, want equal", a.Priority, b.Priority)
	}
}

func TestEmbeddedVariantsCarryThirdPartyContext(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"web_embedded", "tv_embedded"} {
		p := r.MustGet(id)
		if p.Context.ThirdParty == nil || p.Context.ThirdParty.EmbedURL == "" {
			t.Errorf("%s missing thirdParty embed context", id)
		}
	}
	if web := r.MustGet("web"); web.Context.ThirdParty != nil {
		t.Error("web should not carry thirdParty context")
	}
}

func ids(profiles []ClientProfile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}

func TestOrderedByPriorityIsDeterministic(t *testing.T) {
	r := NewRegistry()
	first := r.OrderedByPriority()
	for i := 1; i < len(first); i++ {
		if first[i-1].Priority > first[i].Priority {
			t.Fatalf("ordering not ascending at %d: %d > %d", i, first[i-1].Priority, first[i].Priority)
		}
	}
	for i := 0; i < 5; i++ {
		again := r.OrderedByPriority()
		if !reflect.DeepEqual(ids(first), ids(again)) {
			t.Fatalf("ordering changed between calls: %v vs %v", ids(first), ids(again))
		}
	}
	if first[0].Base() != "android" {
		t.Fatalf("first persona = %s, want an android-family client", first[0].ID)
	}
}

func TestBaseAndVariantSplit(t *testing.T) {
	tests := []struct {
		id, base, variant string
	}{
		{"web", "web", "web"},
		{"web_embedded", "web", "embedded"},
		{"android_sdkless", "android", "sdkless"},
		{"tv_embedded", "tv", "embedded"},
		{"ios", "ios", "ios"},
	}
	for _, tt := range tests {
		p := ClientProfile{ID: tt.id}
		if p.Base() != tt.base || p.Variant() != tt.variant {
			t.Errorf("%s: base=%q variant=%q, want %q/%q", tt.id, p.Base(), p.Variant(), tt.base, tt.variant)
		}
	}
}
