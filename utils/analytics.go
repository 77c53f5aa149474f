package utils

import (
	"fmt"
	"sort"
)

// AnalyticsEngine groups normalized records into chart-ready series.
type AnalyticsEngine struct{}

// NewAnalyticsEngine creates a new analytics engine
func NewAnalyticsEngine() *AnalyticsEngine {
	return &AnalyticsEngine{}
}

// ChartData represents data formatted for charts
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset represents a data series
type Dataset struct {
	Label           string        `json:"label"`
	Data            []interface{} `json:"data"`
	BackgroundColor interface{}   `json:"backgroundColor,omitempty"`
	BorderColor     interface{}   `json:"borderColor,omitempty"`
}

// Group is one key of a grouping with its count and summed value.
type Group struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
}

// GroupBy counts items per key and sums value(item). Groups come back in
// descending count order, ties broken by key. value may be nil.
func GroupBy[T any](items []T, key func(T) string, value func(T) float64) []Group {
	index := map[string]int{}
	var groups []Group
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Count++
		if value != nil {
			groups[i].Sum += value(it)
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].Count != groups[b].Count {
			return groups[a].Count > groups[b].Count
		}
		return groups[a].Key < groups[b].Key
	})
	return groups
}

// TransformToChartData transforms groups into a single-series chart.
func (ae *AnalyticsEngine) TransformToChartData(groups []Group, chartType, label string, useSum bool) (*ChartData, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no data to transform")
	}

	chartData := &ChartData{Labels: make([]string, 0, len(groups))}
	dataset := Dataset{Label: label, Data: make([]interface{}, 0, len(groups))}
	for _, g := range groups {
		chartData.Labels = append(chartData.Labels, g.Key)
		if useSum {
			dataset.Data = append(dataset.Data, g.Sum)
		} else {
			dataset.Data = append(dataset.Data, g.Count)
		}
	}

	colors := ae.getChartColors(len(groups))
	switch chartType {
	case "pie", "doughnut":
		dataset.BackgroundColor = colors
		dataset.BorderColor = "#ffffff"
	default:
		dataset.BackgroundColor = colors[0]
		dataset.BorderColor = colors[0]
	}
	chartData.Datasets = append(chartData.Datasets, dataset)

	return chartData, nil
}

func (ae *AnalyticsEngine) getChartColors(count int) []string {
	baseColors := []string{
		"#3B82F6", // Blue
		"#10B981", // Green
		"#F59E0B", // Amber
		"#EF4444", // Red
		"#8B5CF6", // Purple
		"#EC4899", // Pink
		"#14B8A6", // Teal
		"#F97316", // Orange
		"#6366F1", // Indigo
		"#84CC16", // Lime
	}

	colors := make([]string, 0, count)
	for i := 0; i < count; i++ {
		colors = append(colors, baseColors[i%len(baseColors)])
	}

	return colors
}
