package numeric

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseU128(t *testing.T) {
	tt := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"0", "0", nil},
		{"5", "5", nil},
		{"340282366920938463463374607431768211455", "340282366920938463463374607431768211455", nil},
		{"340282366920938463463374607431768211456", "", ErrValueOutOfRange},
		{"-1", "", ErrValueOutOfRange},
		{"", "", ErrValueInvalid},
		{"12abc", "", ErrValueInvalid},
		{"1.5", "", ErrValueInvalid},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			v, err := ParseU128(tc.in)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, v.String())
		})
	}
}

func TestParseU256(t *testing.T) {
	maxValue := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	t.Run("max value fits", func(t *testing.T) {
		v, err := ParseU256(maxValue.String())
		require.NoError(t, err)
		assert.Equal(t, maxValue.String(), v.String())
	})

	t.Run("max value plus one does not fit", func(t *testing.T) {
		over := new(big.Int).Add(maxValue, big.NewInt(1))
		_, err := ParseU256(over.String())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValueOutOfRange))
	})

	t.Run("u128 max fits easily", func(t *testing.T) {
		v, err := ParseU256("340282366920938463463374607431768211456")
		require.NoError(t, err)
		assert.False(t, v.IsZero())
	})
}

func TestU128_LittleEndian(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		v := MustParseU128("18446744073709551616") // 1 << 64

		b := v.LittleEndian()
		require.Len(t, b, U128Bytes)

		back, err := U128FromLittleEndian(b)
		require.NoError(t, err)
		assert.True(t, v.Equal(back))
	})

	t.Run("small value lands in the low bytes", func(t *testing.T) {
		b := NewU128(5).LittleEndian()
		assert.Equal(t, byte(5), b[0])
		for i := 1; i < U128Bytes; i++ {
			assert.Equal(t, byte(0), b[i])
		}
	})

	t.Run("wrong width is rejected", func(t *testing.T) {
		_, err := U128FromLittleEndian(make([]byte, 8))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValueInvalid))
	})
}

func TestU256_LittleEndian(t *testing.T) {
	v := MustParseU256("115792089237316195423570985008687907853269984665640564039457584007913129639935")

	b := v.LittleEndian()
	require.Len(t, b, U256Bytes)

	back, err := U256FromLittleEndian(b)
	require.NoError(t, err)
	assert.True(t, v.Equal(back))
}

func TestU128_JSON(t *testing.T) {
	t.Run("renders as a decimal string", func(t *testing.T) {
		b, err := json.Marshal(NewU128(5))
		require.NoError(t, err)
		assert.Equal(t, `"5"`, string(b))
	})

	t.Run("zero value renders as zero", func(t *testing.T) {
		var v U128
		b, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, `"0"`, string(b))
	})

	t.Run("decodes from a string", func(t *testing.T) {
		var v U128
		require.NoError(t, json.Unmarshal([]byte(`"340282366920938463463374607431768211455"`), &v))
		assert.Equal(t, "340282366920938463463374607431768211455", v.String())
	})

	t.Run("decodes from a bare number", func(t *testing.T) {
		var v U128
		require.NoError(t, json.Unmarshal([]byte(`42`), &v))
		assert.Equal(t, "42", v.String())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var v U128
		err := json.Unmarshal([]byte(`"12abc"`), &v)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValueInvalid))
	})
}

func TestU256_JSON(t *testing.T) {
	type payload struct {
		List []U256 `json:"list"`
	}

	in := payload{List: []U256{NewU256(7), NewU256(8)}}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"list":["7","8"]}`, string(b))

	var out payload
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out.List, 2)
	assert.True(t, out.List[0].Equal(NewU256(7)))
	assert.True(t, out.List[1].Equal(NewU256(8)))
}

func TestU128_Accessors(t *testing.T) {
	t.Run("uint64 fits", func(t *testing.T) {
		v, ok := NewU128(42).Uint64()
		assert.True(t, ok)
		assert.Equal(t, uint64(42), v)
	})

	t.Run("uint64 overflow is reported", func(t *testing.T) {
		huge := MustParseU128("18446744073709551616")
		_, ok := huge.Uint64()
		assert.False(t, ok)
	})

	t.Run("big hands out a copy", func(t *testing.T) {
		v := NewU128(9)
		v.Big().SetUint64(100)
		assert.Equal(t, "9", v.String())
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var v U128
		assert.True(t, v.IsZero())
		assert.Equal(t, "0", v.String())
		assert.Equal(t, make([]byte, U128Bytes), v.LittleEndian())
	})
}
