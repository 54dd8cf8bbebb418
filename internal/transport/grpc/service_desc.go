package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AvailabilityServiceName = "salonbook.v1.AvailabilityService"
	AppointmentsServiceName = "salonbook.v1.AppointmentsService"
	BlockedTimesServiceName = "salonbook.v1.BlockedTimesService"
	OffersServiceName       = "salonbook.v1.OffersService"
)

type AvailabilityServiceServer interface {
	ComputeDaySlots(ctx context.Context, req *ComputeDaySlotsRequest) (*ComputeDaySlotsResponse, error)
	ListBlockedPeriod(ctx context.Context, req *ListBlockedPeriodRequest) (*ListBlockedPeriodResponse, error)
}

type AppointmentsServiceServer interface {
	CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, req *UpdateAppointmentRequest) (*AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, req *DeleteAppointmentRequest) (*AppointmentResponse, error)
}

type BlockedTimesServiceServer interface {
	CreateBlockedTime(ctx context.Context, req *CreateBlockedTimeRequest) (*BlockedTimeResponse, error)
	UpdateBlockedTime(ctx context.Context, req *UpdateBlockedTimeRequest) (*BlockedTimeResponse, error)
	DeleteBlockedTime(ctx context.Context, req *BlockedTimeIDRequest) (*BlockedTimeResponse, error)
	FindBlockedTime(ctx context.Context, req *BlockedTimeIDRequest) (*BlockedTimeResponse, error)
	ListBlockedTimes(ctx context.Context, req *ListBlockedTimesRequest) (*ListBlockedTimesResponse, error)
}

type OffersServiceServer interface {
	CreateOffer(ctx context.Context, req *CreateOfferRequest) (*OfferResponse, error)
}

// unary adapts a typed method to grpc.MethodHandler.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var AvailabilityServiceDesc = grpc.ServiceDesc{
	ServiceName: AvailabilityServiceName,
	HandlerType: (*AvailabilityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AvailabilityServiceName, "ComputeDaySlots", AvailabilityServiceServer.ComputeDaySlots),
		unary(AvailabilityServiceName, "ListBlockedPeriod", AvailabilityServiceServer.ListBlockedPeriod),
	},
	Metadata: "salonbook/v1/availability",
}

var AppointmentsServiceDesc = grpc.ServiceDesc{
	ServiceName: AppointmentsServiceName,
	HandlerType: (*AppointmentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AppointmentsServiceName, "CreateAppointment", AppointmentsServiceServer.CreateAppointment),
		unary(AppointmentsServiceName, "UpdateAppointment", AppointmentsServiceServer.UpdateAppointment),
		unary(AppointmentsServiceName, "DeleteAppointment", AppointmentsServiceServer.DeleteAppointment),
	},
	Metadata: "salonbook/v1/appointments",
}

var BlockedTimesServiceDesc = grpc.ServiceDesc{
	ServiceName: BlockedTimesServiceName,
	HandlerType: (*BlockedTimesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(BlockedTimesServiceName, "CreateBlockedTime", BlockedTimesServiceServer.CreateBlockedTime),
		unary(BlockedTimesServiceName, "UpdateBlockedTime", BlockedTimesServiceServer.UpdateBlockedTime),
		unary(BlockedTimesServiceName, "DeleteBlockedTime", BlockedTimesServiceServer.DeleteBlockedTime),
		unary(BlockedTimesServiceName, "FindBlockedTime", BlockedTimesServiceServer.FindBlockedTime),
		unary(BlockedTimesServiceName, "ListBlockedTimes", BlockedTimesServiceServer.ListBlockedTimes),
	},
	Metadata: "salonbook/v1/blocked_times",
}

var OffersServiceDesc = grpc.ServiceDesc{
	ServiceName: OffersServiceName,
	HandlerType: (*OffersServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(OffersServiceName, "CreateOffer", OffersServiceServer.CreateOffer),
	},
	Metadata: "salonbook/v1/offers",
}

func RegisterAvailabilityServiceServer(s grpc.ServiceRegistrar, srv AvailabilityServiceServer) {
	s.RegisterService(&AvailabilityServiceDesc, srv)
}

func RegisterAppointmentsServiceServer(s grpc.ServiceRegistrar, srv AppointmentsServiceServer) {
	s.RegisterService(&AppointmentsServiceDesc, srv)
}

func RegisterBlockedTimesServiceServer(s grpc.ServiceRegistrar, srv BlockedTimesServiceServer) {
	s.RegisterService(&BlockedTimesServiceDesc, srv)
}

func RegisterOffersServiceServer(s grpc.ServiceRegistrar, srv OffersServiceServer) {
	s.RegisterService(&OffersServiceDesc, srv)
}
