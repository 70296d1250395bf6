package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// ResultSet is either side of a query response. Key and Value of a
// response hold one entry per model found, in the same order.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// encodeResults splits found models into the serialized key and value
// sets of a query response.
func encodeResults(found []capcall.Model) (keys, values []byte, err error) {
	var k, v ResultSet
	for _, m := range found {
		k.Results = append(k.Results, m.Key)
		v.Results = append(v.Results, m.Value)
	}
	if keys, err = capcall.Marshal(&k); err != nil {
		return nil, nil, errors.Wrap(err, "keys")
	}
	if values, err = capcall.Marshal(&v); err != nil {
		return nil, nil, errors.Wrap(err, "values")
	}
	return keys, values, nil
}

// DecodeResults rebuilds the models of a query response from its Key and
// Value.
func DecodeResults(keys, values []byte) ([]capcall.Model, error) {
	var k, v ResultSet
	if err := capcall.Unmarshal(keys, &k); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := capcall.Unmarshal(values, &v); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	if len(k.Results) != len(v.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", len(k.Results), len(v.Results))
	}
	found := make([]capcall.Model, len(k.Results))
	for i := range found {
		found[i] = capcall.Pair(k.Results[i], v.Results[i])
	}
	return found, nil
}

// UnmarshalFirst decodes the first value of a query response into dst.
// It returns false when the query found nothing.
func UnmarshalFirst(values []byte, dst capcall.Persistent) (bool, error) {
	var v ResultSet
	if err := capcall.Unmarshal(values, &v); err != nil {
		return false, err
	}
	if len(v.Results) == 0 {
		return false, nil
	}
	return true, capcall.Unmarshal(v.Results[0], dst)
}
