package records

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const positionKeyPrefix = "resume-"

// PositionKey derives the store key for a user's playback position. The raw
// platform user id never appears in the key space.
func PositionKey(userID string) string {
	sum := blake2b.Sum256([]byte(userID))
	return positionKeyPrefix + hex.EncodeToString(sum[:])
}

// Position is where a user stopped listening to an episode.
type Position struct {
	UserID             string `json:"user_id"`
	Token              string `json:"token"`
	OffsetMilliseconds int64  `json:"offset_ms"`
}

func (p *Position) UnmarshalJSON(b []byte) error {
	var raw struct {
		UserID string          `json:"user_id"`
		Token  string          `json:"token"`
		Offset json.RawMessage `json:"offset_ms"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Position{UserID: raw.UserID, Token: raw.Token, OffsetMilliseconds: ParseOffset(string(raw.Offset))}
	return nil
}

// ParseOffset reads a millisecond offset written either as a JSON number or a
// string. Anything missing, unparsable or negative is 0.
func ParseOffset(raw string) int64 {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != f || f < 0 || f > 1<<62 {
			return 0
		}
		n = int64(f)
	}
	if n < 0 {
		return 0
	}
	return n
}
