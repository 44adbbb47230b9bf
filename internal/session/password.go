package session

import "sync"

// SecurePassword holds the password buffer and zeroes its memory when
// characters are removed or the buffer is cleared.
type SecurePassword struct {
	mu   sync.Mutex
	data []byte
}

// NewSecurePassword creates a new secure password container
func NewSecurePassword() *SecurePassword {
	return &SecurePassword{
		data: make([]byte, 0, 64),
	}
}

// Append adds UTF-8 bytes of one character to the password
func (p *SecurePassword) Append(chars ...byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = append(p.data, chars...)
}

// RemoveLast removes the last character from the password
func (p *SecurePassword) RemoveLast() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.data) > 0 {
		// Zero out the last byte before removing it
		p.data[len(p.data)-1] = 0
		p.data = p.data[:len(p.data)-1]
	}
}

// Clear securely wipes the password data
func (p *SecurePassword) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.data {
		p.data[i] = 0
	}
	p.data = p.data[:0]
}

// String returns the password as a string (use carefully)
func (p *SecurePassword) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.data)
}

// Length returns the password length
func (p *SecurePassword) Length() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.data)
}
