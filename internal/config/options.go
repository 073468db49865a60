package config

// This file implements the key=value option syntax:
//
//	sampleclean <input_dir> m=1 t=-60 l=-16 f=mp3 sr=48000 o=<output_dir>
//
// The first argument is always the input path. Every later argument is split
// on the first "=". Unknown keys are returned to the caller so it can warn
// about them.

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var errEmptyValue = errors.New("value must not be empty")

// ParseOptions applies args onto cfg and returns the arguments it did not
// recognize. It returns [ErrHelp] as soon as a help keyword is seen and an
// [*OptionError] for unparsable values.
func ParseOptions(cfg *Config, args []string) (unknown []string, err error) {
	for _, a := range args {
		if isHelpKeyword(a) {
			return nil, ErrHelp
		}
	}
	if len(args) == 0 {
		return nil, nil
	}

	cfg.InputRoot = args[0]

	for _, a := range args[1:] {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			unknown = append(unknown, a)
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		known, err := applyOption(cfg, key, value)
		if err != nil {
			return nil, &OptionError{Key: key, Value: value, Err: err}
		}
		if !known {
			unknown = append(unknown, a)
		}
	}
	return unknown, nil
}

func isHelpKeyword(arg string) bool {
	key, _, _ := strings.Cut(arg, "=")
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "h", "help", "man":
		return true
	}
	return false
}

// applyOption sets one option. It reports false for keys it does not know.
func applyOption(cfg *Config, key, value string) (bool, error) {
	switch key {
	case "t":
		v, err := parseFloat(value)
		if err != nil {
			return true, err
		}
		cfg.SilenceThresholdDB = v
	case "m":
		cfg.ToMono = parseTruthy(value)
	case "l":
		v, err := parseOptionalFloat(value)
		if err != nil {
			return true, err
		}
		cfg.LoudnessTargetLUFS = v
	case "f":
		if value == "" {
			return true, errEmptyValue
		}
		cfg.OutputFormat = strings.ToLower(strings.TrimPrefix(value, "."))
	case "sr":
		if value == "" {
			cfg.SampleRateHz = nil
			return true, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return true, errors.New("sample rate must be a whole number of Hz")
		}
		cfg.SampleRateHz = &n
	case "o":
		if value == "" {
			return true, errEmptyValue
		}
		cfg.OutputRoot = value
	case "fi":
		v, err := parseOptionalFloat(value)
		if err != nil {
			return true, err
		}
		cfg.FadeInSec = v
	case "fo":
		v, err := parseOptionalFloat(value)
		if err != nil {
			return true, err
		}
		cfg.FadeOutSec = v
	default:
		return false, nil
	}
	return true, nil
}

// parseTruthy reports true for numbers above zero and for the usual boolean
// words. Everything else is false.
func parseTruthy(s string) bool {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n > 0
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on", "y":
		return true
	}
	return false
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errEmptyValue
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("must be a number")
	}
	return v, nil
}

// parseOptionalFloat treats an empty value as "unset".
func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
