package engine

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/scriptlab/engine/internal/logging"
)

// baseCapabilities builds the always-present Logger/Calculator/Utils
// bundle (spec.md §4.8 "Base capabilities"). Injected providers are
// shallow-merged over this by the caller, providers winning on key clash.
func baseCapabilities() map[string]interface{} {
	log := logging.Get(logging.CategoryExecutor)

	return map[string]interface{}{
		"Logger": map[string]interface{}{
			"info":    func(msg string) { log.Info("[INFO] %s", msg) },
			"success": func(msg string) { log.Info("[SUCCESS] %s", msg) },
			"warn":    func(msg string) { log.Warn("[WARN] %s", msg) },
			"error":   func(msg string) { log.Error("[ERROR] %s", msg) },
		},
		"Calculator": map[string]interface{}{
			"enhance": func(v float64) float64 { return v * 1.1 },
			"sum":     sumFloats,
			"average": averageFloats,
			"product": productFloats,
		},
		"Utils": map[string]interface{}{
			"formatToDecimals": formatToDecimals,
			"capitaliseFirst":  capitaliseFirst,
			"delay":            delay,
			"randomInteger":    randomInteger,
			"shuffle":          shuffle,
			"randomChoice":     randomChoice,
		},
	}
}

func sumFloats(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func averageFloats(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumFloats(values) / float64(len(values))
}

func productFloats(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 1.0
	for _, v := range values {
		total *= v
	}
	return total
}

func formatToDecimals(value float64, digits int) string {
	return strconv.FormatFloat(value, 'f', digits, 64)
}

func capitaliseFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}

// delay blocks for ms milliseconds, modelling the suspension point the
// specification documents for Utils.delay (spec.md §5).
func delay(ms int) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func randomInteger(min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("randomInteger: max %d is less than min %d", max, min)
	}
	return min + rand.Intn(max-min+1), nil
}

// shuffle returns a freshly allocated Fisher-Yates shuffle of items,
// leaving the input untouched.
func shuffle(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func randomChoice(items []interface{}) (interface{}, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("randomChoice: empty sequence")
	}
	return items[rand.Intn(len(items))], nil
}
