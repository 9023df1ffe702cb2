// Package csvimport разбирает CSV-файлы контрагентов и двигателей:
// первая строка — заголовок, имена колонок сверяются со списком
// допустимых без учёта регистра, незнакомые колонки игнорируются.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/remservice/motor-backoffice/internal/model"
)

var counterpartyColumns = map[string]struct{}{
	"name":      {},
	"inn":       {},
	"kpp":       {},
	"address":   {},
	"phone":     {},
	"email":     {},
	"is_active": {},
}

var motorColumns = map[string]struct{}{
	"name":             {},
	"manufacturer":     {},
	"power_kw":         {},
	"rpm":              {},
	"voltage":          {},
	"inventory_number": {},
	"notes":            {},
}

// ParseCounterparties читает CSV контрагентов. Обязательна колонка name;
// is_active по умолчанию true.
func ParseCounterparties(r io.Reader) ([]model.Counterparty, error) {
	records, header, err := read(r, counterpartyColumns, "name")
	if err != nil {
		return nil, err
	}

	result := make([]model.Counterparty, 0, len(records))
	for i, record := range records {
		get := func(name string) string { return fieldValue(record, header, name) }
		name := get("name")
		if name == "" {
			return nil, fmt.Errorf("строка %d: пустое поле name", i+2)
		}
		result = append(result, model.Counterparty{
			Name:     name,
			INN:      get("inn"),
			KPP:      get("kpp"),
			Address:  get("address"),
			Phone:    get("phone"),
			Email:    get("email"),
			IsActive: parseBool(get("is_active"), true),
		})
	}
	return result, nil
}

// ParseMotors читает CSV двигателей. Обязательна колонка name.
func ParseMotors(r io.Reader) ([]model.Motor, error) {
	records, header, err := read(r, motorColumns, "name")
	if err != nil {
		return nil, err
	}

	result := make([]model.Motor, 0, len(records))
	for i, record := range records {
		get := func(name string) string { return fieldValue(record, header, name) }
		name := get("name")
		if name == "" {
			return nil, fmt.Errorf("строка %d: пустое поле name", i+2)
		}
		result = append(result, model.Motor{
			Name:            name,
			Manufacturer:    get("manufacturer"),
			PowerKW:         parseFloat(get("power_kw")),
			RPM:             parseInt(get("rpm")),
			Voltage:         get("voltage"),
			InventoryNumber: get("inventory_number"),
			Notes:           get("notes"),
		})
	}
	return result, nil
}

// read возвращает записи и отображение "допустимая колонка → индекс".
func read(r io.Reader, allowed map[string]struct{}, required string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("разбор CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("файл пуст")
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if _, ok := allowed[normalized]; ok {
			header[normalized] = i
		}
	}
	if _, ok := header[required]; !ok {
		return nil, nil, fmt.Errorf("отсутствует обязательная колонка %q", required)
	}

	return rows[1:], header, nil
}

func fieldValue(record []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseBool(raw string, fallback bool) bool {
	switch strings.ToLower(raw) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return fallback
	}
}

func parseFloat(raw string) float64 {
	raw = strings.ReplaceAll(raw, ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
