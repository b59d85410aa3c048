package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"vehicleregistry/internal/domain"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func printProfile(p domain.Profile) {
	printKV([][2]string{
		{"id", strconv.Itoa(p.ID)},
		{"username", p.Username},
	})
}

func printSegments(items []domain.Segment) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(item.ID),
			item.SegmentName,
		})
	}
	printTable([]string{"ID", "SEGMENT"}, rows)
}

func printBrands(items []domain.Brand) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(item.ID),
			item.BrandName,
		})
	}
	printTable([]string{"ID", "BRAND"}, rows)
}

func printVehicles(items []domain.Vehicle) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(item.ID),
			item.VehicleName,
			strconv.Itoa(item.ReleaseYear),
			strconv.FormatFloat(item.Price, 'f', 2, 64),
			item.SegmentName,
			item.BrandName,
		})
	}
	printTable([]string{"ID", "NAME", "YEAR", "PRICE", "SEGMENT", "BRAND"}, rows)
}
