package assetdiscovery

import (
	"encoding/binary"
	"errors"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/assetdiscovery/schema"
	"golang.org/x/crypto/blake2b"
)

const (
	TldModulePrefix  = "TldModule"
	TldStoragePrefix = "DomainMap"
)

// remoteDomainInfo mirrors the field order of the remote ledger record.
type remoteDomainInfo struct {
	Creator    [32]byte
	ChainSpec  []byte
	Maintainer []byte
	Available  bool
}

// Twox128 concatenates two little endian xxhash64 digests seeded 0 and 1.
func Twox128(data []byte) []byte {
	out := make([]byte, 16)
	for seed := uint64(0); seed < 2; seed++ {
		h := xxhash.NewWithSeed(seed)
		_, _ = h.Write(data)
		binary.LittleEndian.PutUint64(out[seed*8:], h.Sum64())
	}
	return out
}

func Blake2_128(data []byte) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return h.Sum(nil)
}

// Blake2_128Concat is the keyed hasher: digest followed by the hashed bytes.
func Blake2_128Concat(data []byte) []byte {
	return append(Blake2_128(data), data...)
}

func EncodeBytes(bz []byte) ([]byte, error) {
	return codec.Encode(bz)
}

// StorageKey is the DomainMap address of a domain on a remote ledger.
func StorageKey(domain string) ([]byte, error) {
	encoded, err := EncodeBytes([]byte(domain))
	if err != nil {
		return nil, err
	}
	key := make([]byte, 0, 32+16+len(encoded))
	key = append(key, Twox128([]byte(TldModulePrefix))...)
	key = append(key, Twox128([]byte(TldStoragePrefix))...)
	key = append(key, Blake2_128Concat(encoded)...)
	return key, nil
}

func StorageKeyHex(domain string) (string, error) {
	key, err := StorageKey(domain)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(key), nil
}

// DomainFromStorageKey reverses StorageKey, checking the prefix and digest.
func DomainFromStorageKey(key []byte) (string, error) {
	prefixLen := 32
	if len(key) < prefixLen+16+1 {
		return "", errors.New("storage key too short")
	}
	prefix := append(Twox128([]byte(TldModulePrefix)), Twox128([]byte(TldStoragePrefix))...)
	if string(key[:prefixLen]) != string(prefix) {
		return "", errors.New("storage key is not a DomainMap key")
	}
	digest, encoded := key[prefixLen:prefixLen+16], key[prefixLen+16:]
	if string(Blake2_128(encoded)) != string(digest) {
		return "", errors.New("storage key digest mismatch")
	}
	var domain []byte
	if err := codec.Decode(encoded, &domain); err != nil {
		return "", err
	}
	return string(domain), nil
}

func EncodeDomainInfo(info schema.DomainInfo) ([]byte, error) {
	return codec.Encode(remoteDomainInfo{
		Creator:    info.Creator,
		ChainSpec:  []byte(info.ChainSpec),
		Maintainer: []byte(info.Maintainer),
		Available:  info.Available,
	})
}

func DecodeDomainInfo(bz []byte) (*schema.DomainInfo, error) {
	r := remoteDomainInfo{}
	if err := codec.Decode(bz, &r); err != nil {
		return nil, err
	}
	return &schema.DomainInfo{
		Creator:    r.Creator,
		ChainSpec:  string(r.ChainSpec),
		Maintainer: string(r.Maintainer),
		Available:  r.Available,
	}, nil
}
