package payroll

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// TaxBracket taxes the wage between the previous bracket's limit and UpperLimit.
// The final bracket has no upper limit.
type TaxBracket struct {
	UpperLimit *float64 `yaml:"upperLimit" json:"upperLimit"`
	Rate       float64  `yaml:"rate" json:"rate"`
}

type SocialSecurityRates struct {
	AOW float64 `yaml:"aow" json:"aow"`
	WLZ float64 `yaml:"wlz" json:"wlz"`
	WW  float64 `yaml:"ww" json:"ww"`
}

// Rates is the statutory table set of one tax year.
type Rates struct {
	Year             int                 `yaml:"year" json:"year"`
	Brackets         []TaxBracket        `yaml:"brackets" json:"brackets"`
	GeneralTaxCredit float64             `yaml:"generalTaxCredit" json:"generalTaxCredit"`
	GreenTableFactor float64             `yaml:"greenTableFactor" json:"greenTableFactor"`
	SocialSecurity   SocialSecurityRates `yaml:"socialSecurity" json:"socialSecurity"`
}

func limit(v float64) *float64 {
	return &v
}

var Rates2025 = Rates{
	Year: 2025,
	Brackets: []TaxBracket{
		{UpperLimit: limit(38441), Rate: 0.3582},
		{UpperLimit: limit(76817), Rate: 0.4950},
		{Rate: 0.4950},
	},
	GeneralTaxCredit: 3068,
	GreenTableFactor: 0.64,
	SocialSecurity: SocialSecurityRates{
		AOW: 0.1790,
		WLZ: 0.0965,
		WW:  0.0264,
	},
}

func (r Rates) Validate() error {
	if r.Year <= 0 {
		return fmt.Errorf("%w: year must be positive", ErrInvalidRates)
	}
	if len(r.Brackets) == 0 {
		return fmt.Errorf("%w: %d has no brackets", ErrInvalidRates, r.Year)
	}
	previous := 0.0
	for i, bracket := range r.Brackets {
		last := i == len(r.Brackets)-1
		if bracket.Rate < 0 {
			return fmt.Errorf("%w: %d bracket %d has a negative rate", ErrInvalidRates, r.Year, i+1)
		}
		if last {
			if bracket.UpperLimit != nil {
				return fmt.Errorf("%w: %d final bracket must be unbounded", ErrInvalidRates, r.Year)
			}
			continue
		}
		if bracket.UpperLimit == nil {
			return fmt.Errorf("%w: %d bracket %d needs an upper limit", ErrInvalidRates, r.Year, i+1)
		}
		if *bracket.UpperLimit <= previous {
			return fmt.Errorf("%w: %d bracket %d limit must exceed %.2f", ErrInvalidRates, r.Year, i+1, previous)
		}
		previous = *bracket.UpperLimit
	}
	if r.GeneralTaxCredit < 0 {
		return fmt.Errorf("%w: %d tax credit is negative", ErrInvalidRates, r.Year)
	}
	if r.GreenTableFactor <= 0 || r.GreenTableFactor > 1 {
		return fmt.Errorf("%w: %d green table factor must be in (0, 1]", ErrInvalidRates, r.Year)
	}
	ss := r.SocialSecurity
	if ss.AOW < 0 || ss.WLZ < 0 || ss.WW < 0 {
		return fmt.Errorf("%w: %d social security rates must be non-negative", ErrInvalidRates, r.Year)
	}
	return nil
}

// Registry holds rate tables by year. Lookups for a year without its own table fall back
// to the closest earlier year, or the earliest table for years before all of them.
type Registry struct {
	mu     sync.RWMutex
	tables map[int]Rates
}

func NewRegistry(tables ...Rates) (*Registry, error) {
	r := &Registry{tables: make(map[int]Rates, len(tables))}
	for _, rates := range tables {
		if err := r.Register(rates); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry holding the built-in tables.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Rates2025)
	if err != nil {
		panic(err)
	}
	return r
}

var builtin = DefaultRegistry()

func (r *Registry) Register(rates Rates) error {
	if err := rates.Validate(); err != nil {
		return err
	}
	rates.Brackets = append([]TaxBracket(nil), rates.Brackets...)
	r.mu.Lock()
	r.tables[rates.Year] = rates
	r.mu.Unlock()
	return nil
}

func (r *Registry) For(year int) Rates {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rates, ok := r.tables[year]; ok {
		return rates
	}
	years := r.sortedYears()
	if len(years) == 0 {
		return Rates{Year: year}
	}
	chosen := years[0]
	for _, candidate := range years {
		if candidate <= year {
			chosen = candidate
		}
	}
	return r.tables[chosen]
}

func (r *Registry) Years() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedYears()
}

func (r *Registry) sortedYears() []int {
	years := make([]int, 0, len(r.tables))
	for year := range r.tables {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

type ratesFile struct {
	Tables []Rates `yaml:"tables"`
}

// LoadRatesFile reads extra year tables from a YAML file with a top-level "tables" list.
func LoadRatesFile(path string) ([]Rates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rates file: %w", err)
	}
	var file ratesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rates file: %w", err)
	}
	return file.Tables, nil
}

// RegisterFile loads path into the registry; an empty path is a no-op.
func (r *Registry) RegisterFile(path string) error {
	if path == "" {
		return nil
	}
	tables, err := LoadRatesFile(path)
	if err != nil {
		return err
	}
	for _, rates := range tables {
		if err := r.Register(rates); err != nil {
			return err
		}
	}
	return nil
}
