package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an integer that accepts both JSON numbers and numeric strings,
// since the questionnaire client serializes form values as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("invalid integer %q", str)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}

// PersonAnswer is one respondent's questionnaire input.
type PersonAnswer struct {
	Person        int    `json:"person"`
	FavoriteMovie string `json:"favoriteMovie"`
	NewOrClassic  string `json:"newOrClassic"`
	Mood          string `json:"mood"`
	IslandPerson  string `json:"islandPerson"`
}

// RecommendationRequest is the aggregate payload submitted once the last
// respondent finishes.
type RecommendationRequest struct {
	NumberOfPeople FlexInt        `json:"numberOfPeople"`
	Duration       FlexInt        `json:"duration"`
	AllAnswers     []PersonAnswer `json:"allAnswers"`
}
