package powerprofile

import (
	"fmt"
	"math"
	"strings"

	"github.com/360coachinglab/powerprofile-app/curve"
	"github.com/360coachinglab/powerprofile-app/zones"
)

// noteDurations are the curve points called out in the summary.
var noteDurations = []int{5, 20, 60, 180, 300, 720, 1200, 3600}

// BuildProfileNotes turns a profile into a plain-text coaching summary.
func BuildProfileNotes(p *Profile) string {
	if p == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Recordings: %d analyzed", len(p.Files))
	if len(p.Failures) > 0 {
		fmt.Fprintf(&b, ", %d failed", len(p.Failures))
	}
	b.WriteByte('\n')
	for _, f := range p.Failures {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, f.Error)
	}

	if p.Athlete.HasWeight() {
		fmt.Fprintf(&b, "Athlete: %.1f kg", p.Athlete.WeightKG)
		if ffm := p.Athlete.FatFreeMassKG(); !math.IsNaN(ffm) {
			fmt.Fprintf(&b, " | FFM %.1f kg (%.1f%% body fat)", ffm, p.Athlete.BodyFatPct)
		}
		if p.Athlete.Sex != "" {
			fmt.Fprintf(&b, " | %s", p.Athlete.Sex)
		}
		b.WriteByte('\n')
	}

	if len(p.Curve) == 0 {
		b.WriteString("\nPower Curve\n- No power data found in any recording.\n")
	} else {
		b.WriteString("\nPower Curve\n")
		for _, d := range noteDurations {
			v, ok := p.Curve[d]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "- %s: %.0f W%s\n", curve.Label(d), v, perKG(p, v))
		}
		if p.PeakPowerWatts != nil {
			fmt.Fprintf(&b, "- Peak: %.0f W\n", *p.PeakPowerWatts)
		}
	}

	m := p.Metrics
	b.WriteString("\nEstimates\n")
	if math.IsNaN(m.FTPWatts) {
		b.WriteString("- FTP unavailable (not enough efforts of 3 min or longer)\n")
	} else {
		fmt.Fprintf(&b, "- FTP %.0f W%s (%s)\n", m.FTPWatts, perKG(p, m.FTPWatts), m.FTPSource)
	}
	switch {
	case !math.IsNaN(m.VO2MaxRel):
		fmt.Fprintf(&b, "- VO2max %.2f L/min | %.1f ml/min/kg\n", m.VO2MaxAbs, m.VO2MaxRel)
	case !math.IsNaN(m.VO2MaxAbs):
		fmt.Fprintf(&b, "- VO2max %.2f L/min (relative value needs body weight)\n", m.VO2MaxAbs)
	default:
		b.WriteString("- VO2max unavailable (needs a 5 min best effort)\n")
	}
	if math.IsNaN(m.VLamax) {
		b.WriteString("- VLamax unavailable (needs weight, body fat, 20 s and peak power)\n")
	} else {
		fmt.Fprintf(&b, "- VLamax %.2f mmol/L/s\n", m.VLamax)
	}
	fmt.Fprintf(&b, "- Coefficient set: %s\n", m.CoefficientSet)

	writeZones(&b, "Power Zones", p.PowerZones)
	writeZones(&b, "Heart Rate Zones", p.HeartRateZones)

	fmt.Fprintf(&b, "\nAthlete Type: %s\n", p.AthleteTypeName)
	for _, s := range p.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	if p.Advice != nil {
		if p.Advice.Matches {
			fmt.Fprintf(&b, "- Profile matches the %s target.\n", p.Advice.Target)
		} else {
			fmt.Fprintf(&b, "- Target %s: %s\n", p.Advice.Target, p.Advice.Focus)
		}
	}

	return strings.TrimSpace(b.String())
}

func writeZones(b *strings.Builder, title string, t *zones.Table) {
	if t == nil {
		return
	}
	fmt.Fprintf(b, "\n%s (%s %.0f %s)\n", title, t.Scheme, t.Threshold, t.Unit)
	for _, z := range t.Zones {
		if z.Upper == nil {
			fmt.Fprintf(b, "- %s: %.0f+ %s\n", z.Name, z.Lower, t.Unit)
			continue
		}
		fmt.Fprintf(b, "- %s: %.0f-%.0f %s\n", z.Name, z.Lower, *z.Upper, t.Unit)
	}
}

func perKG(p *Profile, watts float64) string {
	v := p.Athlete.PerKG(watts)
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf(" (%.2f W/kg)", v)
}
