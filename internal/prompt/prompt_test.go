package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/language"
)

func TestBasic(t *testing.T) {
	p := Basic(language.French, "Procédez a la lubrification des coupleurs")
	for _, want := range []string{
		"from French to English",
		"Do not add any punctuation",
		"respond with an empty string",
		"Translate the following text: 'Procédez a la lubrification des coupleurs'",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Count(p, "Translate the following text") != 1 {
		t.Errorf("prompt should address exactly one input string")
	}
}

func TestBasic_UnknownLanguage(t *testing.T) {
	p := Basic(language.Code("de"), "Tür defekt")
	if !strings.Contains(p, "from Unknown to English") {
		t.Fatalf("unexpected language name in prompt: %q", p)
	}
}

func TestTechnical_DistinctBranchPerLanguage(t *testing.T) {
	seen := map[string]language.Code{}
	for _, lang := range []language.Code{language.French, language.Italian, language.Kazakh, language.Russian, language.Spanish, language.Swedish} {
		p := Technical(lang, "obs", "sol")
		instr := strings.SplitN(p, "\n", 2)[0]
		if prev, dup := seen[instr]; dup {
			t.Fatalf("%s shares its instruction with %s", lang, prev)
		}
		seen[instr] = lang
		if !strings.Contains(p, "Source language: "+lang.Name()) {
			t.Errorf("%s: missing source language line", lang)
		}
		if !strings.Contains(p, "Observation: <translated observation>\nSolution: <translated solution>") {
			t.Errorf("%s: missing output template", lang)
		}
	}
}

func TestTechnical_FallbackTemplate(t *testing.T) {
	p := Technical(language.Unknown, "obs", "sol")
	if !strings.HasPrefix(p, genericFidelity) {
		t.Fatalf("expected generic instruction for unknown language")
	}
}

func TestEnglishRewrite(t *testing.T) {
	p := EnglishRewrite("pump brokn on car 3", "replaced pump P-12")
	if !strings.Contains(p, "Keep every code") || !strings.Contains(p, "Solution: replaced pump P-12") {
		t.Fatalf("unexpected rewrite prompt: %q", p)
	}
}

func TestParseTranslatedText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		obs     string
		sol     string
		wantErr bool
	}{
		{"template", "Observation: Door stuck\nSolution: Door adjusted", "Door stuck", "Door adjusted", false},
		{"preamble ignored", "Sure!\nObservation: Leak\nSolution: Seal replaced\n", "Leak", "Seal replaced", false},
		{"empty fields", "Observation: \nSolution: ", "", "", false},
		{"missing solution", "Observation: Door stuck", "", "", true},
		{"missing observation", "Solution: Door adjusted", "", "", true},
		{"free text", "The door is stuck.", "", "", true},
		{"empty", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, sol, err := ParseTranslatedText(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if obs != tt.obs || sol != tt.sol {
				t.Fatalf("got (%q, %q), want (%q, %q)", obs, sol, tt.obs, tt.sol)
			}
			if err != nil {
				if !errors.Is(err, ErrMissingMarkers) {
					t.Fatalf("expected ErrMissingMarkers, got %v", err)
				}
				if !apperrors.Is(err, apperrors.KindParse) {
					t.Fatalf("expected parse kind, got %v", err)
				}
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeBasic {
		t.Fatalf("ParseMode(\"\") = %q, %v", m, err)
	}
	if m, err := ParseMode("Technical"); err != nil || m != ModeTechnical {
		t.Fatalf("ParseMode(Technical) = %q, %v", m, err)
	}
	if _, err := ParseMode("fancy"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
