package analysis

import (
	"sort"

	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// PainRegion names an anatomical region scored by the pain-risk engine.
type PainRegion string

const (
	RegionNeck      PainRegion = "neck"
	RegionShoulder  PainRegion = "shoulder"
	RegionUpperBack PainRegion = "upper_back"
	RegionLowerBack PainRegion = "lower_back"
	RegionHip       PainRegion = "hip"
	RegionKnee      PainRegion = "knee"
)

// PainRiskInputs are the session-average measurements the region rules draw
// from.
type PainRiskInputs struct {
	CVA             float64
	SVA             float64
	Kyphosis        float64
	Lordosis        float64
	TrunkLean       float64
	LateralLean     float64
	ShoulderTilt    float64
	PelvicObliquity float64
	StanceAsymmetry float64
	KneeFlexionROM  float64
	RebaScore       float64
}

// RegionRisk is one region's assessment: additive capped score, the factors
// that contributed, and a banded recommendation.
type RegionRisk struct {
	Region         PainRegion `json:"region"`
	Score          float64    `json:"score"` // 0-100
	Factors        []string   `json:"factors"`
	Recommendation string     `json:"recommendation"`
}

// PainRiskResult maps every region plus the overall composite: the mean of
// the top-3 region scores, deliberately biased toward the worst-affected
// areas rather than diluted by unaffected ones.
type PainRiskResult struct {
	Regions []RegionRisk `json:"regions"`
	Overall float64      `json:"overall"` // 0-100
}

type painContribution struct {
	cap    float64
	ramp   func(PainRiskInputs) float64
	reason string
}

var painRules = map[PainRegion][]painContribution{
	RegionNeck: {
		{45, func(in PainRiskInputs) float64 { return stats.Ramp01(in.CVA, 50, 35) }, "forward head posture loads the cervical extensors"},
		{35, func(in PainRiskInputs) float64 { return stats.Ramp01(in.SVA, 4, 10) }, "anterior head translation"},
		{20, func(in PainRiskInputs) float64 { return stats.Ramp01(in.RebaScore, 4, 10) }, "sustained awkward posture"},
	},
	RegionShoulder: {
		{40, func(in PainRiskInputs) float64 { return stats.Ramp01(in.ShoulderTilt, 2, 8) }, "uneven shoulder height"},
		{35, func(in PainRiskInputs) float64 { return stats.Ramp01(in.Kyphosis, 45, 65) }, "rounded upper back alters scapular mechanics"},
		{25, func(in PainRiskInputs) float64 { return stats.Ramp01(in.CVA, 50, 38) }, "forward head posture"},
	},
	RegionUpperBack: {
		{50, func(in PainRiskInputs) float64 { return stats.Ramp01(in.Kyphosis, 45, 68) }, "increased thoracic kyphosis"},
		{30, func(in PainRiskInputs) float64 { return stats.Ramp01(in.TrunkLean, 5, 18) }, "sustained forward lean"},
		{20, func(in PainRiskInputs) float64 { return stats.Ramp01(in.RebaScore, 4, 10) }, "high ergonomic load"},
	},
	RegionLowerBack: {
		{40, func(in PainRiskInputs) float64 { return stats.Ramp01(in.Lordosis, 60, 82) }, "increased lumbar lordosis"},
		{30, func(in PainRiskInputs) float64 { return stats.Ramp01(in.TrunkLean, 5, 18) }, "sustained forward lean"},
		{15, func(in PainRiskInputs) float64 { return stats.Ramp01(in.LateralLean, 3, 10) }, "lateral trunk imbalance"},
		{15, func(in PainRiskInputs) float64 { return stats.Ramp01(in.PelvicObliquity, 2, 8) }, "pelvic obliquity"},
	},
	RegionHip: {
		{45, func(in PainRiskInputs) float64 { return stats.Ramp01(in.PelvicObliquity, 2, 8) }, "pelvic obliquity shifts hip load"},
		{35, func(in PainRiskInputs) float64 { return stats.Ramp01(in.StanceAsymmetry, 5, 20) }, "asymmetric stance time"},
		{20, func(in PainRiskInputs) float64 { return stats.Ramp01(in.Lordosis, 60, 80) }, "anterior pelvic posture"},
	},
	RegionKnee: {
		{45, func(in PainRiskInputs) float64 { return stats.Ramp01(in.StanceAsymmetry, 5, 20) }, "asymmetric loading"},
		{35, func(in PainRiskInputs) float64 { return stats.Ramp01(in.KneeFlexionROM, 50, 20) }, "restricted knee flexion"},
		{20, func(in PainRiskInputs) float64 { return stats.Ramp01(in.RebaScore, 4, 10) }, "high ergonomic load"},
	},
}

// Order regions are reported in.
var painRegionOrder = []PainRegion{
	RegionNeck, RegionShoulder, RegionUpperBack, RegionLowerBack, RegionHip, RegionKnee,
}

var painRecommendations = map[PainRegion][4]string{
	RegionNeck: {
		"Neck posture is in a healthy range; keep current habits.",
		"Add chin-tuck breaks during long screen sessions.",
		"Begin a daily deep-neck-flexor strengthening routine.",
		"Forward head loading is high; consider a physiotherapy assessment.",
	},
	RegionShoulder: {
		"Shoulder alignment is balanced.",
		"Add scapular retraction exercises twice a week.",
		"Work on pectoral stretching and mid-trapezius strengthening.",
		"Marked shoulder imbalance; consider a clinical movement screen.",
	},
	RegionUpperBack: {
		"Thoracic posture is in a healthy range.",
		"Add thoracic extension mobility work.",
		"Combine extension mobility with rowing-pattern strengthening.",
		"Pronounced kyphotic loading; consider a clinical posture assessment.",
	},
	RegionLowerBack: {
		"Lumbar posture is in a healthy range.",
		"Add hip-flexor stretching after long sitting periods.",
		"Strengthen the anterior core and glutes to unload the lumbar spine.",
		"High lumbar strain pattern; consider a physiotherapy referral.",
	},
	RegionHip: {
		"Hip loading is symmetric.",
		"Add single-leg balance work to even out loading.",
		"Strengthen hip abductors; monitor pelvic drop while walking.",
		"Marked hip loading asymmetry; consider a gait assessment.",
	},
	RegionKnee: {
		"Knee loading is in a healthy range.",
		"Add quadriceps and hamstring flexibility work.",
		"Address the loading asymmetry with progressive strengthening.",
		"High asymmetric knee load; consider a clinical assessment.",
	},
}

// AnalyzePainRisk scores every region and the top-3 composite. Pure function
// of its inputs.
func AnalyzePainRisk(in PainRiskInputs) PainRiskResult {
	var r PainRiskResult
	scores := make([]float64, 0, len(painRegionOrder))

	for _, region := range painRegionOrder {
		rr := RegionRisk{Region: region}
		for _, c := range painRules[region] {
			contribution := c.ramp(in) * c.cap
			if contribution > 0 {
				rr.Score += contribution
				rr.Factors = append(rr.Factors, c.reason)
			}
		}
		rr.Score = stats.Clamp(rr.Score, 0, 100)
		rr.Recommendation = painRecommendations[region][scoreBand(rr.Score)]
		r.Regions = append(r.Regions, rr)
		scores = append(scores, rr.Score)
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	top := scores
	if len(top) > 3 {
		top = top[:3]
	}
	r.Overall = stats.Clamp(stats.Mean(top), 0, 100)
	return r
}

func scoreBand(score float64) int {
	switch {
	case score < 25:
		return 0
	case score < 50:
		return 1
	case score < 75:
		return 2
	default:
		return 3
	}
}
