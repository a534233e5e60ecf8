package freq

import "time"

// Round maps a raw timestamp to the start boundary of its containing bucket
// in the given location. All persisted bar keys and all live bucket keys go
// through here, so keys produced from ticks and keys produced from stored
// history are identical for the same instant.
func (f Frequency) Round(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)

	switch f.Unit {
	case Second, Minute, Hour:
		// Intraday buckets are aligned to the local midnight, which keeps
		// them stable across non-hour timezone offsets.
		midnight := dayStart(lt)
		elapsed := lt.Sub(midnight)
		step := f.Interval()
		return midnight.Add(elapsed - elapsed%step)
	case Day:
		return dayStart(lt)
	case Week:
		// Weeks start on Monday.
		days := int(lt.Weekday())
		if days == 0 {
			days = 7
		}
		return dayStart(lt.AddDate(0, 0, 1-days))
	case Month:
		return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	case Year:
		return time.Date(lt.Year(), 1, 1, 0, 0, 0, 0, loc)
	default:
		return lt
	}
}

// SameBucket reports whether two timestamps fall into the same bucket.
func (f Frequency) SameBucket(a, b time.Time, loc *time.Location) bool {
	return f.Round(a, loc).Equal(f.Round(b, loc))
}

// NextBucket returns the start of the bucket following the one containing t.
func (f Frequency) NextBucket(t time.Time, loc *time.Location) time.Time {
	start := f.Round(t, loc)

	switch f.Unit {
	case Day:
		return start.AddDate(0, 0, f.N)
	case Week:
		return start.AddDate(0, 0, 7*f.N)
	case Month:
		return start.AddDate(0, f.N, 0)
	case Year:
		return start.AddDate(f.N, 0, 0)
	default:
		return start.Add(f.Interval())
	}
}

func dayStart(lt time.Time) time.Time {
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, lt.Location())
}
