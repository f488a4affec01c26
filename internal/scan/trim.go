package scan

import "os"

// ApplyTrim enforces the duplex-tail trim policy on a freshly acquired file
// set and returns the surviving set.
//
// Trim only makes sense on output the scanner just produced: when nothing
// was scanned this call, the request is silently dropped. A single-page
// scan cannot be trimmed at all. Two or three pages almost certainly mean
// the flag was given by mistake, so the request is refused with a notice
// and the set is left alone. From four pages up, exactly the last page is
// removed from the set and deleted from storage.
func (a *Acquirer) ApplyTrim(files []string, requested, scanned bool) ([]string, error) {
	if !requested {
		return files, nil
	}
	if !scanned {
		a.Log.Debug("No new scan this call, trim disabled")
		return files, nil
	}

	switch n := len(files); {
	case n == 1:
		return nil, ErrTrimSingle
	case n < 4:
		a.Log.Warn("Trim refused: expects at least 4 scan files, got %d", n)
		return files, nil
	}

	last := files[len(files)-1]
	a.Log.Info("Trim last scan file %s", last)
	a.Log.Exec("rm %s", last)
	if !a.DryRun {
		if err := os.Remove(last); err != nil {
			return nil, err
		}
	}
	return files[:len(files)-1], nil
}
