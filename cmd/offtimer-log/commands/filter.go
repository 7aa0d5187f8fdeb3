package commands

import (
	"fmt"
	"io"

	"github.com/offtimer/offtimer-go/pkg/log"
)

// RunFilter copies the events of the log file that match filter into a new
// log file and returns the number of events written.
func RunFilter(inputPath, outputPath string, filter log.Filter) (int, error) {
	reader, err := log.NewFilteredReader(inputPath, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := log.NewFileLogger(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return count, fmt.Errorf("failed to read event: %w", err)
		}
		out.Log(event)
		count++
	}

	if err := out.Close(); err != nil {
		return count, fmt.Errorf("failed to close output file: %w", err)
	}
	return count, nil
}
