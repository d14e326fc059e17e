// Package storage is the local ReadingStore: flat JSON files under a data
// directory, one per record family. The core only needs an ordered-sequence
// source shaped like the model records; this store is the single-plant local
// implementation of that contract.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

const (
	operationalFile = "operational.json"
	chemicalsFile   = "chemicals.json"
	consumptionFile = "consumption.json"
	configFile      = "config.json"
)

type Store struct {
	mu      sync.Mutex
	dataDir string
}

// Open prepares the data directory and seeds the shipped chemical set when
// the inventory file does not exist yet.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir %s: %w", dataDir, err)
	}
	s := &Store{dataDir: dataDir}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeds := map[string]any{
		operationalFile: []model.OperationalReading{},
		consumptionFile: []model.ConsumptionEntry{},
		chemicalsFile: []model.Chemical{
			{Nombre: "Antiescalante", StockInicial: 200, Stock: 180, Unidad: "L"},
			{Nombre: "Hipoclorito", StockInicial: 150, Stock: 120, Unidad: "L"},
			{Nombre: "Cloruro férrico", StockInicial: 100, Stock: 90, Unidad: "L"},
		},
		configFile: model.AlertConfig{DPThreshold: model.DefaultDPThreshold, DataDir: s.dataDir},
	}
	for name, def := range seeds {
		path := filepath.Join(s.dataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("storage: stat %s: %w", name, err)
		}
		if err := s.writeFile(name, def); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) readFile(name string, out any) error {
	b, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return fmt.Errorf("storage: read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("storage: decode %s: %w", name, err)
	}
	return nil
}

// writeFile writes to a temp file then renames, so readers never see a
// torn file after a crash mid-write.
func (s *Store) writeFile(name string, payload any) error {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: rename %s: %w", name, err)
	}
	return nil
}

// Operational returns the daily readings in stored (chronological append)
// order.
func (s *Store) Operational() ([]model.OperationalReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.OperationalReading
	if err := s.readFile(operationalFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendOperational stores one reading. One record per date: a resubmission
// for an already-recorded date replaces that record in place, the latest
// write wins.
func (s *Store) AppendOperational(r model.OperationalReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var readings []model.OperationalReading
	if err := s.readFile(operationalFile, &readings); err != nil {
		return err
	}
	replaced := false
	for i := range readings {
		if readings[i].Fecha.Equal(r.Fecha) {
			readings[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		readings = append(readings, r)
	}
	return s.writeFile(operationalFile, readings)
}

func (s *Store) Chemicals() ([]model.Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Chemical
	if err := s.readFile(chemicalsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SaveChemicals(chemicals []model.Chemical) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile(chemicalsFile, chemicals)
}

func (s *Store) Consumption() ([]model.ConsumptionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ConsumptionEntry
	if err := s.readFile(consumptionFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AppendConsumption(entries []model.ConsumptionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ledger []model.ConsumptionEntry
	if err := s.readFile(consumptionFile, &ledger); err != nil {
		return err
	}
	ledger = append(ledger, entries...)
	return s.writeFile(consumptionFile, ledger)
}

func (s *Store) Config() (model.AlertConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg model.AlertConfig
	if err := s.readFile(configFile, &cfg); err != nil {
		return model.AlertConfig{}, err
	}
	if cfg.DPThreshold <= 0 {
		cfg.DPThreshold = model.DefaultDPThreshold
	}
	return cfg, nil
}

func (s *Store) SaveConfig(cfg model.AlertConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile(configFile, cfg)
}
