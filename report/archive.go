package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shards-pm/shards/log"
)

// ArchiveDir is the project-relative directory reports are copied to after
// writing.
const ArchiveDir = ".shards/audit/reports"

// Archive copies the already-written report at outputPath into
// ArchiveDir/<basename>-<YYYYMMDD-HHMMSS><ext>. Failure is logged and
// swallowed: archiving is never fatal.
func Archive(projectRoot, outputPath string, now time.Time) {
	data, err := os.ReadFile(outputPath)
	if err != nil {
		log.Warnf("report: archive skipped, could not read %s: %v", outputPath, err)
		return
	}

	ext := filepath.Ext(outputPath)
	base := filepath.Base(outputPath)
	base = base[:len(base)-len(ext)]
	archiveName := fmt.Sprintf("%s-%s%s", base, now.UTC().Format("20060102-150405"), ext)

	dir := filepath.Join(projectRoot, ArchiveDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warnf("report: archive skipped, could not create %s: %v", dir, err)
		return
	}

	if err := os.WriteFile(filepath.Join(dir, archiveName), data, 0o644); err != nil {
		log.Warnf("report: archive skipped, could not write archive copy: %v", err)
	}
}
