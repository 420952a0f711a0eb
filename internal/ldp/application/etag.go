package application

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// ComputeETag returns the weak ETag spec §4.4 step 4 names: W/"<hex MD5 of
// the serialized representation>". Weak because two different
// serializations of the same graph (e.g. differing only in blank-node
// labeling or triple order) would otherwise compare unequal despite being
// the same resource state - the protocol never promises byte-identical
// serialization, only triple-set equality, so only a weak comparison is
// honest here.
func ComputeETag(body []byte) string {
	sum := md5.Sum(body)
	return fmt.Sprintf(`W/"%s"`, hex.EncodeToString(sum[:]))
}
