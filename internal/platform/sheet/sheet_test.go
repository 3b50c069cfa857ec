package sheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/tealeg/xlsx"
)

func TestWrite_RoundTrip(t *testing.T) {
	tbl := Table{Name: "Payments", Columns: []string{"Patient", "Amount", "Method", "Date"}}
	tbl.AddRow("Asha Rao", 1250.5, "cash", time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))
	tbl.AddRow("Ravi Kumar", 300.0, "online", nil)

	var buf bytes.Buffer
	if err := Write(&buf, tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}

	file, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBinary: %v", err)
	}
	if len(file.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(file.Sheets))
	}
	sh := file.Sheets[0]
	if sh.Name != "Payments" {
		t.Errorf("expected sheet Payments, got %s", sh.Name)
	}
	if len(sh.Rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(sh.Rows))
	}
	if got := sh.Rows[0].Cells[1].Value; got != "Amount" {
		t.Errorf("expected header Amount, got %q", got)
	}
	if got := sh.Rows[1].Cells[0].Value; got != "Asha Rao" {
		t.Errorf("expected Asha Rao, got %q", got)
	}
	amount, err := sh.Rows[1].Cells[1].Float()
	if err != nil || amount != 1250.5 {
		t.Errorf("expected 1250.5, got %v (%v)", amount, err)
	}
}

func TestBuild_RowWidthMismatch(t *testing.T) {
	tbl := Table{Name: "Inventory", Columns: []string{"Name", "Stock"}}
	tbl.AddRow("Paracetamol")

	if _, err := Build(tbl); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestWrite_NothingWrittenOnError(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Table{Name: "A", Columns: []string{"x"}, Rows: [][]interface{}{{1, 2}}})
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty output, got %d bytes", buf.Len())
	}
}

func TestBuild_MultipleSheets(t *testing.T) {
	file, err := Build(
		Table{Name: "Inventory", Columns: []string{"Name"}},
		Table{Name: "Low Stock", Columns: []string{"Name"}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(file.Sheets) != 2 {
		t.Errorf("expected 2 sheets, got %d", len(file.Sheets))
	}
}
