package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// QAPair is one question-answer row from the dataset spreadsheet.
type QAPair struct {
	Question string
	Answer   string
}

// ReadDataset reads question-answer pairs from the first sheet of an xlsx
// file. Column A holds the question, column B the answer. A header row is
// skipped when present; rows missing either side are dropped.
func ReadDataset(path string) ([]QAPair, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("dataset has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	pairs := make([]QAPair, 0, len(rows))
	for i, row := range rows {
		var question, answer string
		if len(row) > 0 {
			question = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			answer = strings.TrimSpace(row[1])
		}

		if i == 0 && strings.EqualFold(question, "question") {
			continue
		}
		if question == "" || answer == "" {
			continue
		}

		pairs = append(pairs, QAPair{Question: question, Answer: answer})
	}

	return pairs, nil
}
