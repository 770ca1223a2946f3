package mortality

// csv.go: carga de la tabla de supervivencia desde CSV.
//
// Acepta el formato ISTAT (separador ';', punto de miles y coma decimal) y
// CSV simple con ','.
// Las columnas se localizan por nombre de cabecera; si la tabla trae lx
// (supervivientes de una cohorte) se normaliza por el primer valor.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alejandrodnm/ulmorte/internal/domain"
)

var (
	ageHeaders      = []string{"age", "eta", "età", "x"}
	survivalHeaders = []string{"survival", "survival_probability", "probabilita_sopravvivenza", "sopravvivenza", "p"}
	lxHeaders       = []string{"lx", "l_x", "sopravviventi"}
)

// Parse lee una tabla de supervivencia desde r.
func Parse(r io.Reader) (domain.MortalityTable, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return domain.MortalityTable{}, fmt.Errorf("mortality.Parse: read: %w", err)
	}

	firstLine, _, _ := strings.Cut(string(raw), "\n")
	sep := ','
	decimalComma := false
	if strings.Contains(firstLine, ";") {
		sep = ';'
		decimalComma = true
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = sep
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return domain.MortalityTable{}, fmt.Errorf("mortality.Parse: header: %w", err)
	}

	ageCol := findColumn(header, ageHeaders)
	valCol := findColumn(header, survivalHeaders)
	isLx := false
	if valCol < 0 {
		valCol = findColumn(header, lxHeaders)
		isLx = valCol >= 0
	}
	if ageCol < 0 || valCol < 0 {
		return domain.MortalityTable{}, fmt.Errorf("mortality.Parse: header %v: need age and survival columns", header)
	}

	rows := make(map[int]float64)
	firstAge := -1
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return domain.MortalityTable{}, fmt.Errorf("mortality.Parse: line %d: %w", line, err)
		}
		if len(rec) <= ageCol || len(rec) <= valCol || strings.TrimSpace(rec[ageCol]) == "" {
			continue
		}

		age, err := strconv.Atoi(strings.TrimSpace(rec[ageCol]))
		if err != nil {
			return domain.MortalityTable{}, fmt.Errorf("mortality.Parse: line %d: age %q: %w", line, rec[ageCol], err)
		}
		v, err := parseNumber(rec[valCol], decimalComma)
		if err != nil {
			return domain.MortalityTable{}, fmt.Errorf("mortality.Parse: line %d: value %q: %w", line, rec[valCol], err)
		}
		if firstAge < 0 || age < firstAge {
			firstAge = age
		}
		rows[age] = v
	}

	if len(rows) == 0 {
		return domain.MortalityTable{}, errors.New("mortality.Parse: empty table")
	}

	if isLx {
		l0 := rows[firstAge]
		if !(l0 > 0) {
			return domain.MortalityTable{}, fmt.Errorf("mortality.Parse: lx at age %d is %v", firstAge, l0)
		}
		for age, lx := range rows {
			rows[age] = lx / l0
		}
	}

	return domain.NewMortalityTable(rows), nil
}

// Load lee la tabla del archivo en path.
func Load(path string) (domain.MortalityTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.MortalityTable{}, fmt.Errorf("mortality.Load: open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// FileProvider implementa ports.MortalityProvider. Carga el archivo la
// primera vez y sirve siempre la misma tabla.
type FileProvider struct {
	path  string
	once  sync.Once
	table domain.MortalityTable
	err   error
}

// NewFileProvider crea un proveedor sobre el CSV en path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// MortalityTable implementa ports.MortalityProvider.
func (p *FileProvider) MortalityTable(_ context.Context) (domain.MortalityTable, error) {
	p.once.Do(func() {
		p.table, p.err = Load(p.path)
	})
	return p.table, p.err
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

// parseNumber interpreta s; en formato ISTAT el punto es siempre separador
// de miles ("100.000" = 100000) y la coma el decimal.
func parseNumber(s string, decimalComma bool) (float64, error) {
	s = strings.TrimSpace(s)
	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
