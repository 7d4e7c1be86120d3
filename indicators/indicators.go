// Package indicators provides technical analysis transforms over daily
// close-price series.
package indicators

import (
	"fmt"
	"math"

	"github.com/spreadlab/calspread/market"
)

// SMA returns the simple moving average of closes for the given window.
// Positions before the window has filled are NaN.
func SMA(closes []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}

	out := make([]float64, len(closes))
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// EMA returns the exponential moving average of closes with the given span.
// The first close seeds the average, so every position has a value.
func EMA(closes []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, fmt.Errorf("span must be positive, got %d", span)
	}

	out := make([]float64, len(closes))
	multiplier := 2.0 / float64(span+1)
	for i, c := range closes {
		if i == 0 {
			out[i] = c
			continue
		}
		out[i] = (c-out[i-1])*multiplier + out[i-1]
	}
	return out, nil
}

// RSI returns the Relative Strength Index computed from rolling average
// gains and losses over the given period. Positions before the first full
// period of deltas are NaN.
func RSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}

	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) <= period {
		return out, nil
	}

	for i := period; i < len(closes); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gain += delta
			} else {
				loss -= delta
			}
		}
		gain /= float64(period)
		loss /= float64(period)

		if loss == 0 {
			out[i] = 100
			continue
		}
		rs := gain / loss
		out[i] = 100 - 100/(1+rs)
	}
	return out, nil
}

// MACD returns the MACD line (fast EMA minus slow EMA) and its signal line
// (EMA of the MACD line).
func MACD(closes []float64, fast, slow, signal int) (macd, signalLine []float64, err error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, nil, fmt.Errorf("periods must be positive, got fast=%d slow=%d signal=%d", fast, slow, signal)
	}

	emaFast, err := EMA(closes, fast)
	if err != nil {
		return nil, nil, err
	}
	emaSlow, err := EMA(closes, slow)
	if err != nil {
		return nil, nil, err
	}

	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	signalLine, err = EMA(macd, signal)
	if err != nil {
		return nil, nil, err
	}
	return macd, signalLine, nil
}

// Annotations carries the standard per-bar indicator columns, aligned with
// the bar series they were computed from.
type Annotations struct {
	SMA50      []float64
	SMA200     []float64
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
}

// Annotate computes the standard annotation set (SMA50, SMA200, RSI14,
// MACD 12/26/9) for a bar series.
func Annotate(bars market.Series) (Annotations, error) {
	closes := bars.Closes()

	var (
		a   Annotations
		err error
	)
	if a.SMA50, err = SMA(closes, 50); err != nil {
		return Annotations{}, err
	}
	if a.SMA200, err = SMA(closes, 200); err != nil {
		return Annotations{}, err
	}
	if a.RSI, err = RSI(closes, 14); err != nil {
		return Annotations{}, err
	}
	if a.MACD, a.MACDSignal, err = MACD(closes, 12, 26, 9); err != nil {
		return Annotations{}, err
	}
	return a, nil
}
