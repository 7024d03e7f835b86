package pushtokens

import "time"

var QueryTimeoutDuration = time.Second * 5
