package util

import "math/rand"

func RandomBytes(count int, rnd *rand.Rand) []byte {
	ret := make([]byte, count)
	if rnd == nil {
		rand.Read(ret)
	} else {
		rnd.Read(ret)
	}
	return ret
}
