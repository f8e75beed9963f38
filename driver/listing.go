package driver

import "github.com/ivandriy/AWSLab/aws/s3/s3types"

// Listing is the outcome of ListBucket. It either holds the objects of the
// bucket or, when Err is set, records that the listing failed; Objects is
// then always empty.
type Listing struct {
	Bucket  string
	Objects []s3types.Object
	Err     error
}

// OK reports whether the listing succeeded.
func (l Listing) OK() bool {
	return l.Err == nil
}

// Empty reports whether a successful listing found no objects.
// A failed listing is not empty; its content is unknown.
func (l Listing) Empty() bool {
	return l.OK() && len(l.Objects) == 0
}

// Keys returns the object keys in listing order.
func (l Listing) Keys() []string {
	keys := make([]string, 0, len(l.Objects))
	for _, obj := range l.Objects {
		keys = append(keys, obj.Key)
	}
	return keys
}
