package memory_test

import "time"

func testTime() time.Time { return time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC) }
