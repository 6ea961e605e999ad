package leaderboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

// Report sizes.
const (
	SchoolTopSize = 10
	ClassTopSize  = 3
)

// Entry is a ranked record.
type Entry struct {
	Rank int `json:"rank"`
	Record
}

// ClassReport holds the standings of one class.
type ClassReport struct {
	ClassName string  `json:"className"`
	Top       []Entry `json:"top"`
	Ranking   []Entry `json:"ranking"`
}

// Report is the printable achievement report.
type Report struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Players     int           `json:"players"`
	School      []Entry       `json:"school"`
	Classes     []ClassReport `json:"classes"`
}

// BuildReport ranks records school-wide and per class.
func BuildReport(records []Record, now time.Time) Report {
	ranked := Ranked(records)
	rep := Report{
		GeneratedAt: now,
		Players:     len(ranked),
		School:      entries(Top(ranked, SchoolTopSize)),
	}
	for _, class := range Classes(ranked) {
		all := entries(FilterClass(ranked, class))
		rep.Classes = append(rep.Classes, ClassReport{
			ClassName: class,
			Top:       all[:min(ClassTopSize, len(all))],
			Ranking:   all,
		})
	}
	return rep
}

func entries(ranked []Record) []Entry {
	out := make([]Entry, len(ranked))
	for i, r := range ranked {
		out[i] = Entry{Rank: i + 1, Record: r}
	}
	return out
}

// WriteText renders the report as aligned plain text.
func (r Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "LAPORAN PENCAPAIAN JUARA TOLAK\n")
	fmt.Fprintf(tw, "Dijana: %s\tPemain: %d\n\n", r.GeneratedAt.Format("2006-01-02 15:04"), r.Players)

	fmt.Fprintf(tw, "TOP %d SEKOLAH\n", SchoolTopSize)
	writeRows(tw, r.School, true)

	for _, c := range r.Classes {
		fmt.Fprintf(tw, "\nKELAS %s\n", c.ClassName)
		writeRows(tw, c.Ranking, false)
	}
	return tw.Flush()
}

func writeRows(w io.Writer, rows []Entry, withClass bool) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (tiada rekod)")
		return
	}
	for _, e := range rows {
		if withClass {
			fmt.Fprintf(w, "  %d.\t%s\t%s\t%d\n", e.Rank, e.Name, e.ClassName, e.Score)
		} else {
			fmt.Fprintf(w, "  %d.\t%s\t%d\n", e.Rank, e.Name, e.Score)
		}
	}
}

// WriteCSV renders every class ranking as CSV rows.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scope", "rank", "class", "name", "score", "timestamp"}); err != nil {
		return err
	}
	write := func(scope string, rows []Entry) error {
		for _, e := range rows {
			err := cw.Write([]string{
				scope,
				strconv.Itoa(e.Rank),
				e.ClassName,
				e.Name,
				strconv.Itoa(e.Score),
				e.Timestamp.UTC().Format(time.RFC3339),
			})
			if err != nil {
				return err
			}
		}
		return nil
	}
	if err := write("school", r.School); err != nil {
		return err
	}
	for _, c := range r.Classes {
		if err := write("class", c.Ranking); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
