package util

import "hash/crc32"

// CaseCRC32 возвращает CRC-32 (полином 0xEDB88320, отражённый) от строки,
// приведённой к верхнему регистру. Так игра хэширует пути к моделям,
// поэтому "a.gr2" и "A.GR2" дают одно и то же значение.
//
// Каждый символ сначала усекается до младшего байта, затем ASCII a-z
// переводятся в A-Z. Пустая строка даёт 0.
func CaseCRC32(text string) uint32 {
	buf := make([]byte, 0, len(text))
	for _, r := range text {
		b := byte(r & 0xFF)
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		buf = append(buf, b)
	}
	return crc32.ChecksumIEEE(buf)
}
