package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

type Subscriber struct {
	Handler interface{}
}

type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

type EventBusWithError interface {
	EventBus
	PublishE(args ...any) error
}

var (
	ErrNoSubscribers        = errors.New("eventbus: no matching subscribers")
	ErrInvalidHandlerReturn = errors.New("eventbus: invalid handler return signature")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type publisherImpl struct {
	mu          sync.RWMutex
	log         logrus.FieldLogger
	Subscribers []Subscriber
}

// NewEventPublisher returns an in-process bus. Handlers run synchronously on
// the publishing goroutine, in subscription order.
func NewEventPublisher(log logrus.FieldLogger) EventBus {
	return &publisherImpl{log: log}
}

func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}

	for i, arg := range args {
		paramType := t.In(i)
		if arg == nil {
			switch paramType.Kind() {
			case reflect.Interface, reflect.Ptr:
				continue
			default:
				return false
			}
		}
		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}
		if !argType.AssignableTo(paramType) {
			return false
		}
	}
	return true
}

func callArgs(handler reflect.Type, args []interface{}) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(handler.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

func (p *publisherImpl) matching(args []interface{}) []reflect.Value {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []reflect.Value
	for _, s := range p.Subscribers {
		if MatchSignature(s.Handler, args) {
			out = append(out, reflect.ValueOf(s.Handler))
		}
	}
	return out
}

// Publish delivers args to every handler whose parameters accept them. A
// panicking handler is logged and does not stop the others.
func (p *publisherImpl) Publish(args ...interface{}) {
	handled := false
	for _, v := range p.matching(args) {
		func() {
			defer func() {
				if r := recover(); r != nil && p.log != nil {
					p.log.Errorf("eventbus: handler %s panicked with args %v: %v", v.Type(), args, r)
				}
			}()
			v.Call(callArgs(v.Type(), args))
			handled = true
		}()
	}

	if !handled && p.log != nil {
		p.log.Debugf("eventbus.Publish: no matching subscribers for event %T", firstArg(args))
	}
}

// PublishE is Publish for handlers returning error; failures and panics are
// joined into the result.
func (p *publisherImpl) PublishE(args ...any) error {
	handlers := p.matching(args)
	if len(handlers) == 0 {
		return ErrNoSubscribers
	}

	var errs []error
	for _, v := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, fmt.Errorf("eventbus: handler %s panicked: %v", v.Type(), r))
				}
			}()

			out := v.Call(callArgs(v.Type(), args))
			switch {
			case len(out) == 0:
			case len(out) != 1:
				errs = append(errs, fmt.Errorf("%w: handler %s returned %d values", ErrInvalidHandlerReturn, v.Type(), len(out)))
			case out[0].Type() != errorType:
				errs = append(errs, fmt.Errorf("%w: handler %s return type is %s", ErrInvalidHandlerReturn, v.Type(), out[0].Type()))
			case !out[0].IsNil():
				errs = append(errs, out[0].Interface().(error))
			}
		}()
	}
	return errors.Join(errs...)
}

func (p *publisherImpl) Subscribe(handler interface{}) {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Subscribers = append(p.Subscribers, Subscriber{Handler: handler})
}

// Unsubscribe removes the first subscription of the same function value.
func (p *publisherImpl) Unsubscribe(handler interface{}) {
	ptr := funcPointer(handler)
	if ptr == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.Subscribers {
		if funcPointer(s.Handler) == ptr {
			p.Subscribers = append(p.Subscribers[:i], p.Subscribers[i+1:]...)
			return
		}
	}
}

func (p *publisherImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Subscribers = []Subscriber{}
}

func (p *publisherImpl) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.Subscribers)
}

func funcPointer(fn interface{}) uintptr {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return 0
	}
	return v.Pointer()
}

func firstArg(args []interface{}) interface{} {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
