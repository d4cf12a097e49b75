package portfolio

import (
	"reflect"
	"testing"
)

func TestNewFrame_Dimensions(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		wantRows int
		wantCols int
	}{
		{
			name:     "regular rows",
			header:   []string{"Ativo", "Quantidade", "Total (R$)"},
			rows:     [][]string{{"BBAS3", "10", "500"}, {"ITSA4", "20", "200"}},
			wantRows: 2,
			wantCols: 3,
		},
		{
			name:     "ragged rows are padded",
			header:   []string{"Ativo", "Quantidade", "Total (R$)"},
			rows:     [][]string{{"BBAS3"}, {}, {"ITSA4", "20", "200", "extra"}},
			wantRows: 3,
			wantCols: 3,
		},
		{
			name:     "header only",
			header:   []string{"Ativo", "Total (R$)"},
			wantRows: 0,
			wantCols: 2,
		},
		{
			name:     "no header",
			wantRows: 0,
			wantCols: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := NewFrame(tt.header, tt.rows)
			if df.Err != nil {
				t.Fatalf("NewFrame() error = %v", df.Err)
			}
			if df.Nrow() != tt.wantRows {
				t.Errorf("Nrow() = %d, want %d", df.Nrow(), tt.wantRows)
			}
			if df.Ncol() != tt.wantCols {
				t.Errorf("Ncol() = %d, want %d", df.Ncol(), tt.wantCols)
			}
		})
	}
}

func TestNewFrame_PadsCells(t *testing.T) {
	df := NewFrame([]string{"A", "B"}, [][]string{{"1"}, {"2", "3"}})

	want := [][]string{{"1", ""}, {"2", "3"}}
	if got := Rows(df); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
}

func TestWhereEquals(t *testing.T) {
	df := NewFrame([]string{"Tipo Ativo", "Ativo"}, [][]string{{"Ação", "BBAS3"}, {"FII", "MXRF11"}, {"Ação", "ITSA4"}})

	got := whereEquals(df, "Tipo Ativo", "Ação")
	if got.Nrow() != 2 {
		t.Errorf("whereEquals() Nrow = %d, want 2", got.Nrow())
	}

	none := whereEquals(df, "Tipo Ativo", "Cripto")
	if none.Nrow() != 0 || none.Ncol() != 2 {
		t.Errorf("whereEquals() without matches = %dx%d, want 0x2", none.Nrow(), none.Ncol())
	}
}

func TestDropLastRow(t *testing.T) {
	df := NewFrame([]string{"Ativo"}, [][]string{{"BBAS3"}, {"ITSA4"}, {"Total"}})
	if got := dropLastRow(df); got.Nrow() != 2 {
		t.Errorf("dropLastRow() Nrow = %d, want 2", got.Nrow())
	}

	single := NewFrame([]string{"Ativo"}, [][]string{{"Total"}})
	if got := dropLastRow(single); got.Nrow() != 0 || got.Ncol() != 1 {
		t.Errorf("dropLastRow() on one row = %dx%d, want 0x1", got.Nrow(), got.Ncol())
	}

	empty := NewFrame([]string{"Ativo"}, nil)
	if got := dropLastRow(empty); got.Nrow() != 0 {
		t.Errorf("dropLastRow() on empty Nrow = %d, want 0", got.Nrow())
	}
}

func TestWithoutColumns(t *testing.T) {
	df := NewFrame([]string{"A", "B", "C"}, [][]string{{"1", "2", "3"}})

	got := withoutColumns(df, "B", "missing")
	if !reflect.DeepEqual(got.Names(), []string{"A", "C"}) {
		t.Errorf("withoutColumns() Names = %v, want [A C]", got.Names())
	}
}

func TestReorderColumns(t *testing.T) {
	names := []string{"Status", "Ganho (%)", "Ativo", "Cotação (R$)", "Quantidade"}
	priority := []string{"Ativo", "Quantidade", "Ganho (%)", "Ganho Ex (%)"}

	want := []string{"Ativo", "Quantidade", "Ganho (%)", "Status", "Cotação (R$)"}
	if got := ReorderColumns(names, priority); !reflect.DeepEqual(got, want) {
		t.Errorf("ReorderColumns() = %v, want %v", got, want)
	}
}
