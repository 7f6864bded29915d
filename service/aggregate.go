// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"sort"

	"github.com/danielhkuo/pageant-tally/models"
)

// Aggregate sums one participant's scores within a segment. Scores keyed by
// a criterion outside criteria are ignored. No weighting is applied.
func Aggregate(participantID, segmentID int64, criteria []models.Criteria, scores map[int64]float64) models.Total {
	total := models.Total{
		ParticipantID: participantID,
		SegmentID:     segmentID,
		Scores:        make(map[int64]float64),
		MaxTotal:      MaxTotal(criteria),
	}

	for _, c := range criteria {
		score, ok := scores[c.ID]
		if !ok {
			continue
		}
		total.Scores[c.ID] = score
		total.Total += score
	}

	total.Percentage = Percentage(total.Total, total.MaxTotal)
	return total
}

// MaxTotal is the highest total one judge can award across criteria
func MaxTotal(criteria []models.Criteria) float64 {
	var sum float64
	for _, c := range criteria {
		sum += float64(c.MaxScore)
	}
	return sum
}

// Percentage returns total/limit*100, or 0 when limit is 0
func Percentage(total, limit float64) float64 {
	if limit == 0 {
		return 0
	}
	return total / limit * 100
}

// Rank orders standings by total (highest first), then participant number,
// and assigns dense 1-indexed ranks. Equal totals share a rank.
func Rank(standings []models.Standing) {
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]

		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Number < b.Number
	})

	rank := 0
	for i := range standings {
		if i == 0 || standings[i].Total != standings[i-1].Total {
			rank++
		}
		standings[i].Rank = rank
	}
}
