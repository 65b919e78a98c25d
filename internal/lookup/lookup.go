// Package lookup holds the data shapes exchanged with the remote parcel
// search service and converts XML derived records into them. It performs no
// network requests.
package lookup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/woozymasta/cadxml/internal/cadastre"
)

// Placeholder values used when a plot comes from an uploaded XML file.
const (
	FromXML       = "Из XML файла"
	SourceXML     = "XML файл"
	ObjectTypeLot = "Земельный участок"
	UnknownSource = "Неизвестно"
)

// ReportTimeLayout matches the ru-RU locale date and time format.
const ReportTimeLayout = "02.01.2006, 15:04:05"

// Coordinate is a boundary point as returned by the search service: X holds
// the latitude and Y the longitude.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlotInfo describes a parcel found by cadastral number.
type PlotInfo struct {
	CadastralNumber string       `json:"cadastralNumber"`
	Area            string       `json:"area"`
	Address         string       `json:"address"`
	Category        string       `json:"category"`
	Usage           string       `json:"usage"`
	Coordinates     []Coordinate `json:"coordinates"`
	Owner           string       `json:"owner,omitempty"`
	Status          string       `json:"status"`
	ObjectType      string       `json:"objectType,omitempty"`
	DateCreated     string       `json:"dateCreated,omitempty"`
	DateUpdated     string       `json:"dateUpdated,omitempty"`
}

// SearchResponse is the envelope of every search answer, successful or not.
type SearchResponse struct {
	Success bool      `json:"success"`
	Source  string    `json:"source,omitempty"`
	IsDemo  bool      `json:"isDemo,omitempty"`
	Data    *PlotInfo `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Details string    `json:"details,omitempty"`
}

// ErrorResponse builds a failed search answer.
func ErrorResponse(msg, details string) SearchResponse {
	return SearchResponse{Error: msg, Details: details}
}

// FromRecord converts a processed XML record into a plot. Geographic
// coordinates are used when present, raw ones otherwise.
func FromRecord(rec *cadastre.Record) *PlotInfo {
	coords := make([]Coordinate, len(rec.Points))
	for i, p := range rec.Points {
		c := Coordinate{X: p.X, Y: p.Y}
		if p.Lat != nil && *p.Lat != 0 {
			c.X = *p.Lat
		}
		if p.Lon != nil && *p.Lon != 0 {
			c.Y = *p.Lon
		}
		coords[i] = c
	}

	return &PlotInfo{
		CadastralNumber: rec.CadastralNumber,
		Area:            strconv.FormatFloat(rec.DeclaredArea, 'f', -1, 64) + " м²",
		Address:         FromXML,
		Category:        FromXML,
		Usage:           FromXML,
		Coordinates:     coords,
		Status:          FromXML,
		ObjectType:      ObjectTypeLot,
	}
}

// XMLResponse wraps a processed record into a successful search answer.
func XMLResponse(rec *cadastre.Record) SearchResponse {
	return SearchResponse{
		Success: true,
		Source:  SourceXML,
		Data:    FromRecord(rec),
	}
}

// PlotReport renders the downloadable plain text report of a found plot.
// It returns an empty string when resp carries no plot.
func PlotReport(resp SearchResponse, now time.Time) string {
	plot := resp.Data
	if plot == nil {
		return ""
	}

	optional := func(label, value string) string {
		if value == "" {
			return ""
		}
		return label + ": " + value
	}

	points := make([]string, len(plot.Coordinates))
	for i, c := range plot.Coordinates {
		points[i] = fmt.Sprintf("Точка %d: Широта=%.6f, Долгота=%.6f", i+1, c.X, c.Y)
	}

	source := resp.Source
	if source == "" {
		source = UnknownSource
	}

	demo := ""
	if resp.IsDemo {
		demo = "\nВНИМАНИЕ: Это демонстрационные данные!"
	}

	lines := []string{
		"Кадастровый номер: " + plot.CadastralNumber,
		"Адрес: " + plot.Address,
		"Площадь: " + plot.Area,
		"Категория земель: " + plot.Category,
		"Разрешенное использование: " + plot.Usage,
		"Статус: " + plot.Status,
		optional("Тип объекта", plot.ObjectType),
		optional("Дата создания", plot.DateCreated),
		"",
		"Координаты границ участка:",
		strings.Join(points, "\n"),
		"",
		"Дата выгрузки: " + now.Format(ReportTimeLayout),
		"Источник: " + source,
		demo,
		"",
		"Примечание: Данные получены через сервис поиска участков.",
		"Для получения официальной выписки обратитесь в МФЦ или на портал Росреестра.",
	}
	return strings.Join(lines, "\n")
}

// ReportFilename suggests the download name of a plot report.
func ReportFilename(plot *PlotInfo) string {
	return "coordinates_" + strings.ReplaceAll(plot.CadastralNumber, ":", "_") + ".txt"
}
