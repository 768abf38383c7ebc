// Package container reads and writes HDX-SFX sound banks: a magic header
// followed by tag/length/value records.
package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"hdxsfx/pkg/spec"
)

var (
	ErrBadMagic  = errors.New("container: not an HDX-SFX bank")
	ErrNoSounds  = errors.New("container: bank holds no sounds")
	ErrTruncated = errors.New("container: record runs past end of bank")
)

// Bank is an in-memory sound bank. When Salt is set the payloads are sealed
// with a key derived from it.
type Bank struct {
	Name    string
	Salt    []byte
	entries map[string][]byte
	order   []string
}

func NewBank(name string) *Bank {
	return &Bank{Name: name, entries: make(map[string][]byte)}
}

// Put adds or replaces the payload stored under key.
func (b *Bank) Put(key string, data []byte) error {
	if key == "" || len(key) > 0xFFFF {
		return fmt.Errorf("container: invalid key length %d", len(key))
	}
	if _, ok := b.entries[key]; !ok {
		b.order = append(b.order, key)
	}
	b.entries[key] = data
	return nil
}

func (b *Bank) Get(key string) ([]byte, bool) {
	data, ok := b.entries[key]
	return data, ok
}

// Keys returns the stored keys in sorted order.
func (b *Bank) Keys() []string {
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Bank) Len() int { return len(b.entries) }

// Sealed reports whether payloads are encrypted.
func (b *Bank) Sealed() bool { return len(b.Salt) > 0 }

// OpenBank reads a whole bank file.
func OpenBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadBank(bytes.NewReader(data))
}

// ReadBank parses a bank. Unknown tags are skipped. Record sizes are checked
// against the bytes left in r before anything is allocated.
func ReadBank(r io.ReadSeeker) (*Bank, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}

	magic := make([]byte, len(spec.BankMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if string(magic) != spec.BankMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, magic)
	}

	b := NewBank("")
	for {
		tagBuf := make([]byte, 4)
		if _, err := io.ReadFull(r, tagBuf); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read tag: %w", err)
		}
		tag := string(tagBuf)

		var size uint32
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, fmt.Errorf("read %s size: %w", tag, err)
		}
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if int64(size) > end-pos {
			return nil, fmt.Errorf("%w: %s wants %d bytes, %d left", ErrTruncated, tag, size, end-pos)
		}

		switch tag {
		case spec.BankName, spec.Sealed, spec.SoundFile:
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("read %s: %w", tag, err)
			}
			if err := b.apply(tag, buf); err != nil {
				return nil, err
			}

		default:
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
		}
	}

	if b.Len() == 0 {
		return nil, ErrNoSounds
	}
	return b, nil
}

func (b *Bank) apply(tag string, buf []byte) error {
	switch tag {
	case spec.BankName:
		b.Name = string(buf)
	case spec.Sealed:
		b.Salt = buf
	case spec.SoundFile:
		if len(buf) < 2 {
			return fmt.Errorf("container: short %s record", tag)
		}
		klen := int(binary.BigEndian.Uint16(buf))
		if len(buf) < 2+klen {
			return fmt.Errorf("container: %s key overruns record", tag)
		}
		return b.Put(string(buf[2:2+klen]), buf[2+klen:])
	}
	return nil
}

// WriteBank serialises b. Entries keep insertion order.
func WriteBank(w io.Writer, b *Bank) error {
	if b.Len() == 0 {
		return ErrNoSounds
	}
	if _, err := w.Write([]byte(spec.BankMagic)); err != nil {
		return err
	}
	if b.Name != "" {
		if err := writeTag(w, spec.BankName, []byte(b.Name)); err != nil {
			return err
		}
	}
	if b.Sealed() {
		if err := writeTag(w, spec.Sealed, b.Salt); err != nil {
			return err
		}
	}
	for _, key := range b.order {
		data := b.entries[key]
		rec := make([]byte, 0, 2+len(key)+len(data))
		rec = binary.BigEndian.AppendUint16(rec, uint16(len(key)))
		rec = append(rec, key...)
		rec = append(rec, data...)
		if err := writeTag(w, spec.SoundFile, rec); err != nil {
			return err
		}
	}
	return nil
}

func writeTag(w io.Writer, tag string, value []byte) error {
	hdr := make([]byte, 0, 8)
	hdr = append(hdr, tag...)
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(len(value)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(value)
	return err
}
