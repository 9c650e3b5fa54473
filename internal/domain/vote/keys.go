package vote

import (
	"fmt"

	"github.com/bytedance/sonic"
)

const collectionKeyPrefix = "posts_collection"

func itemKey(itemID int64) string {
	return fmt.Sprintf("post_votes_%d", itemID)
}

func collectionKey(order OrderField, dir Direction) string {
	return fmt.Sprintf("%s:%s:%s", collectionKeyPrefix, order, dir)
}

// allCollectionKeys lists the key of every query shape the listing engine
// can cache, so a single mutation can drop them all.
func allCollectionKeys() []string {
	keys := make([]string, 0, len(orderFields)*2)
	for _, o := range orderFields {
		keys = append(keys, collectionKey(o, Ascending), collectionKey(o, Descending))
	}
	return keys
}

func encodeAggregate(a Aggregate) ([]byte, error) {
	return sonic.Marshal(a)
}

func decodeAggregate(data []byte) (Aggregate, error) {
	var a Aggregate
	if err := sonic.Unmarshal(data, &a); err != nil {
		return Aggregate{}, err
	}
	if a.Upvotes < 0 || a.Downvotes < 0 || a.Total != a.Upvotes+a.Downvotes || a.Score != a.Upvotes-a.Downvotes {
		return Aggregate{}, fmt.Errorf("inconsistent cached aggregate %+v", a)
	}
	return a, nil
}

func encodeListing(rows []ListedItem) ([]byte, error) {
	return sonic.Marshal(rows)
}

func decodeListing(data []byte) ([]ListedItem, error) {
	var rows []ListedItem
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
