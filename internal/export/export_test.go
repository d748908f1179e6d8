package export

import (
	"os"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/aihaudit/internal/csvread"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

func sp(s string) *string { return &s }

func TestWriteTableRoundTrip(t *testing.T) {
	tbl := model.NewTable("SP_NAIH", "NOME", "SP_VALATO")
	tbl.Append("A1", "MARIA; SILVA", "1.234,56")
	tbl.Append("B2", "JOSE SANTOS", "0,99")

	path, err := WriteTable("alerta_teste", tbl, Options{OutDir: t.TempDir(), BOM: true})
	if err != nil {
		t.Fatal(err)
	}

	f, err := csvread.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 2 {
		t.Fatalf("read %d rows, want 2", f.Len())
	}
	if got := f.Field(0, "NOME"); got != "MARIA; SILVA" {
		t.Errorf("quoted field = %q", got)
	}
	cents, ok := normalize.ParseMoneyCents(f.Field(0, "SP_VALATO"))
	if !ok || cents != 123456 {
		t.Errorf("money round-trip = %d (%v)", cents, ok)
	}
}

func TestWriteTableBOM(t *testing.T) {
	tbl := model.NewTable("A")
	tbl.Append("1")
	path, err := WriteTable("bom", tbl, Options{OutDir: t.TempDir(), BOM: true})
	if err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 3 || raw[0] != 0xEF || raw[1] != 0xBB || raw[2] != 0xBF {
		t.Error("missing UTF-8 BOM")
	}

	path, err = WriteTable("nobom", tbl, Options{OutDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	raw, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) >= 3 && raw[0] == 0xEF {
		t.Error("unexpected BOM")
	}
}

func TestWriteTableRejectsEmpty(t *testing.T) {
	if _, err := WriteTable("vazio", model.NewTable("A"), Options{OutDir: t.TempDir()}); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := WriteTable("nil", nil, Options{OutDir: t.TempDir()}); err == nil {
		t.Fatal("expected error for nil table")
	}
}

func TestWriteAlerts(t *testing.T) {
	tbl := model.NewTable("A")
	tbl.Append("1")
	results := []model.AlertResult{
		{Kind: model.AllAlertKinds[0], Table: tbl},
		{Kind: model.AllAlertKinds[1], Table: tbl},
	}
	paths, err := WriteAlerts(results, Options{OutDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("wrote %d files, want 2", len(paths))
	}
}

func TestParquetRoundTrip(t *testing.T) {
	admit := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	lines := []model.ClaimLine{
		{
			ClaimID:        "A1",
			PatientName:    sp("MARIA SILVA"),
			IsDevice:       true,
			LineValueCents: 123456,
			AdmissionDate:  &admit,
			AdmissionYear:  2023,
		},
		{ClaimID: "B2"},
	}
	path, err := WriteClaimLinesParquet("linhas", lines, Options{OutDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatal(err)
	}
	r := parquet.NewGenericReader[model.ClaimLineParquetRow](pf)
	defer r.Close()

	rows := make([]model.ClaimLineParquetRow, 2)
	if n, err := r.Read(rows); err != nil && n != 2 {
		t.Fatalf("read %d rows: %v", n, err)
	}
	if rows[0].ClaimID != "A1" || rows[0].LineValueCents != 123456 || !rows[0].IsDevice {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[0].AdmissionDate == nil || *rows[0].AdmissionDate != "01/03/2023" {
		t.Errorf("admission date = %v", rows[0].AdmissionDate)
	}
	if rows[1].PatientName != nil {
		t.Errorf("nil field survived as %v", *rows[1].PatientName)
	}
}
