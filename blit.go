package fieldtape

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/fieldtape/internal/conv"
	"github.com/hupe1980/fieldtape/internal/hash"
	"github.com/hupe1980/fieldtape/internal/index"
	"github.com/hupe1980/fieldtape/internal/tape"
)

// Blit frame layout:
//
//	magic "FTB1" | version u8 | compression u8 | fieldCount u32 |
//	fieldCount schema rows:
//	    nameLen u16 | name | offset u64 | length u64 | typeFP u64 |
//	tape block:
//	    uncompressedSize u32 | compressedSize u32 (0 = stored raw) | payload |
//	CRC32C u32 over everything prior
//
// All integers are little-endian. The schema records row order, so a
// decoded registry reproduces handles as well as bytes.

var blitMagic = [4]byte{'F', 'T', 'B', '1'}

const blitVersion = 1

const blitBlockHeaderSize = 8

// Compression selects the algorithm for the blit's tape block.
type Compression uint8

const (
	// CompressionNone stores the tape uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, hot snapshots).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the string representation of a Compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// ErrCorruptBlit is returned by DecodeBlit for any framing, checksum, or
// schema violation.
var ErrCorruptBlit = errors.New("corrupt blit")

type blitOptions struct {
	compression Compression
}

// BlitOption configures blit encoding.
type BlitOption func(*blitOptions)

// WithCompression selects the tape block compression. Default is none.
func WithCompression(c Compression) BlitOption {
	return func(o *blitOptions) {
		o.compression = c
	}
}

// ZSTD encoder/decoder pools; the encoders are heavyweight to construct.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// WriteBlit writes a self-describing frame of the registry's current
// record to w: the schema (names, offsets, lengths, type fingerprints)
// followed by the tape bytes, optionally compressed, sealed with a
// CRC32C. Encoding honors the controller's blit byte-rate limit; ctx
// bounds that wait.
func (r *Registry) WriteBlit(ctx context.Context, w io.Writer, optFns ...BlitOption) error {
	start := time.Now()
	n, err := r.writeBlit(ctx, w, optFns)
	r.metrics.RecordBlit(int(r.tape.Len()), n, time.Since(start), err)
	r.logger.LogBlit("encode", int(r.tape.Len()), n, err)
	return err
}

// EncodeBlit is WriteBlit into a fresh byte slice.
func (r *Registry) EncodeBlit(ctx context.Context, optFns ...BlitOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteBlit(ctx, &buf, optFns...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Registry) writeBlit(ctx context.Context, w io.Writer, optFns []BlitOption) (int, error) {
	o := blitOptions{compression: CompressionNone}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	fieldCount, err := conv.IntToUint32(r.idx.Rows())
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	buf.Write(blitMagic[:])
	buf.WriteByte(blitVersion)
	buf.WriteByte(byte(o.compression))

	var scratch [8]byte
	binary.LittleEndian.PutUint32(scratch[:4], fieldCount)
	buf.Write(scratch[:4])

	for row := 0; row < r.idx.Rows(); row++ {
		name := r.idx.Name(row)
		nameLen, err := conv.IntToUint16(len(name))
		if err != nil {
			return 0, fmt.Errorf("field name too long: %w", err)
		}
		binary.LittleEndian.PutUint16(scratch[:2], nameLen)
		buf.Write(scratch[:2])
		buf.WriteString(name)

		binary.LittleEndian.PutUint64(scratch[:], r.idx.Offset(row))
		buf.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], r.idx.Length(row))
		buf.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], r.idx.TypeFP(row))
		buf.Write(scratch[:])
	}

	schemaEnd := buf.Len()
	if err := appendTapeBlock(&buf, r.tape.Bytes(), o.compression); err != nil {
		return 0, err
	}

	// Seal: checksum the header and schema section, then extend over the
	// tape block.
	crc := hash.CRC32C(buf.Bytes()[:schemaEnd])
	crc = hash.UpdateCRC32C(crc, buf.Bytes()[schemaEnd:])
	binary.LittleEndian.PutUint32(scratch[:4], crc)
	buf.Write(scratch[:4])

	if err := r.ctrl.WaitBlit(ctx, buf.Len()); err != nil {
		return 0, err
	}
	n, err := w.Write(buf.Bytes())
	return n, err
}

// appendTapeBlock frames and appends the tape bytes. An incompressible
// payload (ratio above 0.9) is stored raw inside the frame, marked by a
// compressed size of zero.
func appendTapeBlock(buf *bytes.Buffer, data []byte, compression Compression) error {
	uncompressedSize, err := conv.IntToUint32(len(data))
	if err != nil {
		return err
	}

	var compressed []byte
	switch compression {
	case CompressionNone:
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		dst := make([]byte, bound)
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return err
		}
		if n > 0 {
			compressed = dst[:n]
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return fmt.Errorf("unknown compression %d", compression)
	}

	if compressed == nil || float64(len(compressed)) > float64(len(data))*0.9 {
		compressed = nil // store raw
	}

	var hdr [blitBlockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[:4], uncompressedSize)
	if compressed != nil {
		compressedSize, err := conv.IntToUint32(len(compressed))
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(hdr[4:], compressedSize)
		buf.Write(hdr[:])
		buf.Write(compressed)
		return nil
	}
	binary.LittleEndian.PutUint32(hdr[4:], 0)
	buf.Write(hdr[:])
	buf.Write(data)
	return nil
}

// DecodeBlit reconstructs a registry from a frame produced by WriteBlit.
// The checksum, the schema, and the tiling invariant (field ranges
// partition the tape exactly) are all verified before any state is
// built, so a corrupt frame never yields a half-valid registry.
func DecodeBlit(data []byte, optFns ...Option) (*Registry, error) {
	// magic + version + compression + fieldCount + trailing CRC
	if len(data) < 4+1+1+4+4 {
		return nil, fmt.Errorf("%w: frame too short", ErrCorruptBlit)
	}
	if !bytes.Equal(data[:4], blitMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptBlit)
	}
	if data[4] != blitVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptBlit, data[4])
	}
	compression := Compression(data[5])

	body := data[:len(data)-4]
	wantCRC := binary.LittleEndian.Uint32(data[len(data)-4:])
	if hash.CRC32C(body) != wantCRC {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptBlit)
	}

	fieldCount := binary.LittleEndian.Uint32(body[6:10])
	pos := 10

	// A schema row is at least 26 bytes; reject forged counts before
	// sizing any allocation by them.
	if int64(fieldCount) > int64(len(body)-pos)/26 {
		return nil, fmt.Errorf("%w: field count exceeds frame", ErrCorruptBlit)
	}

	type schemaRow struct {
		name   string
		nameFP uint64
		offset uint64
		length uint64
		typeFP uint64
	}
	rows := make([]schemaRow, 0, fieldCount)
	seen := make(map[string]struct{}, fieldCount)

	for i := uint32(0); i < fieldCount; i++ {
		if pos+2 > len(body) {
			return nil, fmt.Errorf("%w: truncated schema", ErrCorruptBlit)
		}
		nameLen := int(binary.LittleEndian.Uint16(body[pos:]))
		pos += 2
		if pos+nameLen+24 > len(body) {
			return nil, fmt.Errorf("%w: truncated schema row", ErrCorruptBlit)
		}
		nameBytes := body[pos : pos+nameLen]
		name := string(nameBytes)
		pos += nameLen
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrCorruptBlit, name)
		}
		seen[name] = struct{}{}

		rows = append(rows, schemaRow{
			name:   name,
			nameFP: hash.Fingerprint64Bytes(nameBytes),
			offset: binary.LittleEndian.Uint64(body[pos:]),
			length: binary.LittleEndian.Uint64(body[pos+8:]),
			typeFP: binary.LittleEndian.Uint64(body[pos+16:]),
		})
		pos += 24
	}

	tapeBytes, err := decodeTapeBlock(body[pos:], compression)
	if err != nil {
		return nil, err
	}

	// Tiling invariant: the field ranges must partition the tape exactly.
	// Zero-length fields legitimately share their offset with the row that
	// starts at the same boundary, so ties sort shortest-first to keep the
	// walk's cursor exact.
	sorted := make([]schemaRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].offset != sorted[j].offset {
			return sorted[i].offset < sorted[j].offset
		}
		return sorted[i].length < sorted[j].length
	})
	var next uint64
	for _, row := range sorted {
		if row.offset != next {
			return nil, fmt.Errorf("%w: field ranges do not tile the tape", ErrCorruptBlit)
		}
		next = row.offset + row.length
	}
	if next != uint64(len(tapeBytes)) {
		return nil, fmt.Errorf("%w: schema covers %d bytes, tape has %d", ErrCorruptBlit, next, len(tapeBytes))
	}

	o := applyOptions(optFns)
	r := &Registry{
		tape:    tape.New(len(tapeBytes), o.controller),
		idx:     index.New(len(rows)),
		logger:  o.logger,
		metrics: o.metricsCollector,
		ctrl:    o.controller,
	}
	if _, err := r.tape.Append(tapeBytes); err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		r.idx.Insert(row.name, row.nameFP, row.offset, row.length, row.typeFP)
	}
	r.logger.LogBlit("decode", len(tapeBytes), len(data), nil)
	return r, nil
}

func decodeTapeBlock(block []byte, compression Compression) ([]byte, error) {
	if len(block) < blitBlockHeaderSize {
		return nil, fmt.Errorf("%w: truncated tape block", ErrCorruptBlit)
	}
	uncompressedSize := int(binary.LittleEndian.Uint32(block[:4]))
	compressedSize := int(binary.LittleEndian.Uint32(block[4:8]))
	payload := block[blitBlockHeaderSize:]

	if compressedSize == 0 {
		if len(payload) != uncompressedSize {
			return nil, fmt.Errorf("%w: raw tape block size mismatch", ErrCorruptBlit)
		}
		return payload, nil
	}
	if len(payload) != compressedSize {
		return nil, fmt.Errorf("%w: compressed tape block size mismatch", ErrCorruptBlit)
	}

	// Bound the allocation before trusting the frame: no supported block
	// codec expands anywhere near this factor, so a larger claim is forged.
	const maxBlockExpansion = 1 << 10
	if int64(uncompressedSize) > int64(compressedSize)*maxBlockExpansion {
		return nil, fmt.Errorf("%w: implausible tape block size", ErrCorruptBlit)
	}

	out := make([]byte, uncompressedSize)
	switch compression {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlit, err)
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlit)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, out[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptBlit, err)
		}
		if len(decoded) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptBlit)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorruptBlit, compression)
	}
}
