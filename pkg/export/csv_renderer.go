package export

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

func (r *CsvRendererImpl) Render(table Table) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.Write(table.Header); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}
	for _, row := range table.Rows {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}

	return b.Bytes(), nil
}
