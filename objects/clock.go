package objects

import "time"

func nowUnix() Timestamp {
	return Timestamp(time.Now().Unix())
}
