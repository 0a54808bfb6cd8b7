package athlete

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	tests := []struct {
		name string
		in   Inputs
		want Type
	}{
		{
			name: "climber wins over time trialist",
			in:   Inputs{VO2MaxRel: 72, VLamax: 0.30, FTPPerKG: 5.0},
			want: Climber,
		},
		{
			name: "time trialist when ftp too low for climber",
			in:   Inputs{VO2MaxRel: 72, VLamax: 0.30, FTPPerKG: 4.5},
			want: TimeTrialist,
		},
		{
			name: "sprinter",
			in:   Inputs{VO2MaxRel: 50, VLamax: 0.70, FTPPerKG: 3.5},
			want: Sprinter,
		},
		{
			name: "sprinter wins over criterium",
			in:   Inputs{VO2MaxRel: 62, VLamax: 0.65, FTPPerKG: 3.8},
			want: Sprinter,
		},
		{
			name: "mtb xco wins over criterium",
			in:   Inputs{VO2MaxRel: 66, VLamax: 0.55, FTPPerKG: 4.6},
			want: MTBXCO,
		},
		{
			name: "marathon mtb",
			in:   Inputs{VO2MaxRel: 61, VLamax: 0.45, FTPPerKG: 4.3},
			want: MarathonMTB,
		},
		{
			name: "criterium",
			in:   Inputs{VO2MaxRel: 61, VLamax: 0.55, FTPPerKG: 4.1},
			want: Criterium,
		},
		{
			name: "no rule matches",
			in:   Inputs{VO2MaxRel: 50, VLamax: 0.45, FTPPerKG: 3.5},
			want: AllRounder,
		},
		{
			name: "nan inputs fall back",
			in:   Inputs{VO2MaxRel: nan, VLamax: nan, FTPPerKG: nan},
			want: AllRounder,
		},
		{
			name: "nan ftp blocks rules that need it",
			in:   Inputs{VO2MaxRel: 72, VLamax: 0.30, FTPPerKG: nan},
			want: TimeTrialist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.in); got != tt.want {
				t.Fatalf("Classify(%+v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifierRuleOrderIsPriority(t *testing.T) {
	t.Parallel()

	in := Inputs{VO2MaxRel: 66, VLamax: 0.55, FTPPerKG: 4.6}
	rules := DefaultRules()
	if !rules[3].Matches(in) || !rules[5].Matches(in) {
		t.Fatalf("expected input to satisfy both the MTB XCO and criterium rules")
	}

	swapped := []Rule{rules[5], rules[3]}
	c, err := NewClassifier(swapped)
	if err != nil {
		t.Fatalf("NewClassifier() error: %v", err)
	}
	if got := c.Classify(in); got != Criterium {
		t.Fatalf("Classify() = %s, want %s when criterium is listed first", got, Criterium)
	}
}

func TestNewClassifierRejectsBadRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []Rule
	}{
		{name: "unknown type", rules: []Rule{{Type: "gravel", Conditions: []Condition{{MetricVLamax, AtLeast, 1}}}}},
		{name: "no conditions", rules: []Rule{{Type: Sprinter}}},
		{name: "unknown metric", rules: []Rule{{Type: Sprinter, Conditions: []Condition{{"cadence", AtLeast, 1}}}}},
		{name: "unknown op", rules: []Rule{{Type: Sprinter, Conditions: []Condition{{MetricVLamax, "==", 1}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewClassifier(tt.rules); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSuggestions(t *testing.T) {
	t.Parallel()

	for _, typ := range Types {
		got, err := Suggestions(typ)
		if err != nil {
			t.Fatalf("Suggestions(%s) error: %v", typ, err)
		}
		if len(got) == 0 {
			t.Fatalf("Suggestions(%s) returned no sessions", typ)
		}
	}

	got, _ := Suggestions(Sprinter)
	want := []string{"8x20s all-out", "6x30s uphill sprint", "3x5min low cadence"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Suggestions(Sprinter) mismatch (-want +got):\n%s", diff)
	}

	if _, err := Suggestions("gravel"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Suggestions(gravel) error = %v, want ErrUnknownCategory", err)
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Type{
		"climber":       Climber,
		"Time-Trialist": TimeTrialist,
		"MTB XCO":       MTBXCO,
		" all_rounder ": AllRounder,
	} {
		got, err := ParseType(in)
		if err != nil {
			t.Fatalf("ParseType(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseType(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseType("gravel"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("ParseType(gravel) error = %v, want ErrUnknownCategory", err)
	}
}

func TestCompareTarget(t *testing.T) {
	t.Parallel()

	a, err := CompareTarget(Climber, Climber, 0.3)
	if err != nil {
		t.Fatalf("CompareTarget() error: %v", err)
	}
	if !a.Matches || a.Focus != "" {
		t.Fatalf("expected a match without focus, got %+v", a)
	}

	a, err = CompareTarget(Criterium, MarathonMTB, 0.6)
	if err != nil {
		t.Fatalf("CompareTarget() error: %v", err)
	}
	if a.Matches || a.Focus == "" {
		t.Fatalf("expected mismatch advice, got %+v", a)
	}

	if _, err := CompareTarget(Climber, "gravel", 0.3); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("CompareTarget() error = %v, want ErrUnknownCategory", err)
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	p := Profile{WeightKG: 70, BodyFatPct: 15, Sex: Male}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if got := p.FatFreeMassKG(); math.Abs(got-59.5) > 1e-9 {
		t.Fatalf("FatFreeMassKG() = %v, want 59.5", got)
	}
	if got := (Profile{WeightKG: 70}).FatFreeMassKG(); !math.IsNaN(got) {
		t.Fatalf("FatFreeMassKG() without body fat = %v, want NaN", got)
	}
	if got := p.PerKG(280); got != 4 {
		t.Fatalf("PerKG(280) = %v, want 4", got)
	}

	for _, bad := range []Profile{
		{WeightKG: -1},
		{WeightKG: math.NaN()},
		{WeightKG: 70, BodyFatPct: 100},
		{WeightKG: 70, Sex: "other"},
	} {
		var invalid *InvalidInputError
		if err := bad.Validate(); !errors.As(err, &invalid) {
			t.Fatalf("Validate(%+v) error = %v, want InvalidInputError", bad, err)
		}
	}
}

func TestParseSex(t *testing.T) {
	t.Parallel()

	if s, err := ParseSex("F"); err != nil || s != Female {
		t.Fatalf("ParseSex(F) = %v, %v", s, err)
	}
	if s, err := ParseSex(""); err != nil || s != Male {
		t.Fatalf("ParseSex(\"\") = %v, %v", s, err)
	}
	if Female.Code() != 1 || Male.Code() != 0 {
		t.Fatal("unexpected sex codes")
	}
	if _, err := ParseSex("x"); err == nil {
		t.Fatal("expected error for unknown sex")
	}
}
