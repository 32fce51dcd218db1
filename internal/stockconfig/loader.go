package stockconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/roicalc/internal/contracts"
)

// ErrNoStocks is returned when no stock list can be resolved
var ErrNoStocks = errors.New("no stocks configured")

// Source labels returned by Resolve
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
)

// Resolve loads settings from path, or the built-in defaults when the file
// does not exist. An existing file always wins, even when it is invalid.
func Resolve(path string) (*Settings, string, error) {
	if path == "" {
		return Default(), SourceBuiltin, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), SourceBuiltin, nil
	}

	s, _, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return s, SourceFile, nil
}

// Load reads a settings file and returns Settings with raw bytes.
// The file is YAML or JSON; either a bare list of stocks or a full document.
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Settings, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, data, fmt.Errorf("%s: %w", path, err)
	}
	return s, data, nil
}

// Parse decodes and validates settings bytes
func Parse(data []byte) (*Settings, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, ErrNoStocks
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if root.Content[0].Kind == yaml.SequenceNode {
		// stocks.json 형식: [{"name": ..., "symbol": ...}]
		var stocks []contracts.StockConfig
		if err := dec.Decode(&stocks); err != nil {
			return nil, fmt.Errorf("decode stock list: %w", err)
		}
		s.Stocks = stocks
	} else {
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}

	if err := normalize(&s); err != nil {
		return nil, err
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Hash generates SHA256 hash from Settings (canonical JSON)
func Hash(s *Settings) (string, error) {
	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// normalize upper-cases every symbol so lookups are exact
func normalize(s *Settings) error {
	for i := range s.Stocks {
		sym, err := contracts.NormalizeSymbol(s.Stocks[i].Symbol)
		if err != nil {
			return ValidationError{fmt.Sprintf("stocks[%d].symbol", i), err.Error()}
		}
		s.Stocks[i].Symbol = sym
	}

	if len(s.ROEOverrides) > 0 {
		m := make(map[string]float64, len(s.ROEOverrides))
		for k, v := range s.ROEOverrides {
			sym, err := contracts.NormalizeSymbol(k)
			if err != nil {
				return ValidationError{"roe_overrides." + k, err.Error()}
			}
			m[sym] = v
		}
		s.ROEOverrides = m
	}

	for i := range s.ROEFloors {
		sym, err := contracts.NormalizeSymbol(s.ROEFloors[i].Symbol)
		if err != nil {
			return ValidationError{fmt.Sprintf("roe_floors[%d].symbol", i), err.Error()}
		}
		s.ROEFloors[i].Symbol = sym
	}

	if len(s.Notes) > 0 {
		m := make(map[string]string, len(s.Notes))
		for k, v := range s.Notes {
			sym, err := contracts.NormalizeSymbol(k)
			if err != nil {
				return ValidationError{"notes." + k, err.Error()}
			}
			m[sym] = v
		}
		s.Notes = m
	}
	return nil
}
