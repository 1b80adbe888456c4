package services

import "time"

// now is swapped in tests to pin timestamps.
var now = time.Now
